package bonds

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/vasp/vasptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// water writes a run of two water molecules whose O-H bonds (0.1 in direct
// coordinates, 1 Å) hold while the molecules move apart along x.
func water(t *testing.T) string {
	dir := t.TempDir()
	d := vasptest.Doc{
		Species: []string{"O", "H", "H", "O", "H", "H"},
		Types:   []int{1, 2, 2, 1, 2, 2},
		Potim:   0.5,
		Masses:  []float64{16, 1.008},
		Basis:   [3][3]float64{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}},
	}
	for k := 0; k < 4; k++ {
		x := 0.3 + 0.1*float64(k)
		d.Frames = append(d.Frames, [][3]float64{
			{0.2, 0.5, 0.5}, {0.3, 0.5, 0.5}, {0.2, 0.6, 0.5},
			{x, 0.5, 0.7}, {x + 0.1, 0.5, 0.7}, {x, 0.6, 0.7},
		})
	}
	d.Frames = append([][][3]float64{d.Frames[0]}, d.Frames...)
	require.NoError(t, vasptest.WriteFile(dir, "vasprun.xml", d))
	return dir
}

func config(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "bonds.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew(t *testing.T) {
	_, err := New(config(t, "cutoff = 0.0\npairs = [[\"O\", \"H\"]]\n"))
	assert.Error(t, err)

	_, err = New(config(t, "cutoff = 1.2\n"))
	assert.Error(t, err)

	_, err = New(config(t, "cutoff = 1.2\npairs = [[\"O\"]]\n"))
	assert.Error(t, err)

	b, err := New(config(t, "cutoff = 1.2\npairs = [[\"O\", \"H\"], [\"H\", \"H\"]]\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"O", "H"}, {"H", "H"}}, b.Pairs)
}

func TestStart(t *testing.T) {
	dir := water(t)
	out := filepath.Join(t.TempDir(), "bonds.txt")
	png := filepath.Join(t.TempDir(), "bonds.png")

	b, err := New(config(t, fmt.Sprintf(`format = "vasp"
dir = %q
file_out = %q
plot_out = %q
cutoff = 1.2
pairs = [["O", "H"], ["H", "H"], ["O", "O"]]
`, dir, out, png)))
	require.NoError(t, err)
	b.styles = species.NewTable(nil)
	require.NoError(t, b.Start())

	require.Len(t, b.counts, 3)
	assert.Equal(t, []int{4, 4, 4, 4}, b.counts[0])
	assert.Equal(t, []int{0, 0, 0, 0}, b.counts[1])
	assert.Equal(t, []int{0, 0, 0, 0}, b.counts[2])

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Date: "))
	assert.Contains(t, string(content), "cfg t O-H H-H O-O\n")
	assert.Contains(t, string(content), "\n1 0.5 4 0 0\n")
	assert.Contains(t, string(content), "O-H bonds")

	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestStartMissingSpecies(t *testing.T) {
	b, err := New(config(t, fmt.Sprintf(`format = "vasp"
dir = %q
file_out = %q
cutoff = 1.2
pairs = [["O", "Na"]]
`, water(t), filepath.Join(t.TempDir(), "out"))))
	require.NoError(t, err)
	assert.Error(t, b.Start())
}
