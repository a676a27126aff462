package load

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/traj"
	"github.com/kpotier/molview/pkg/vasp/vasptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func config(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "load.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew(t *testing.T) {
	_, err := New(config(t, "format = \"lammps\"\nfile_out = \"out\"\n"))
	assert.Error(t, err)

	_, err = New(config(t, "format = \"qe\"\n"))
	assert.Error(t, err)

	l, err := New(config(t, "format = \"qe\"\nfile_out = \"out\"\n"))
	require.NoError(t, err)
	assert.Equal(t, traj.FormatQE, l.Format)
}

func TestStart(t *testing.T) {
	dir := t.TempDir()
	frames := [][][3]float64{
		{{0.5, 0.5, 0.5}, {0.6, 0.5, 0.5}, {0.5, 0.4, 0.5}},
		{{0.5, 0.5, 0.5}, {0.6, 0.5, 0.5}, {0.5, 0.4, 0.5}},
		{{0.5, 0.5, 0.6}, {0.6, 0.5, 0.6}, {0.5, 0.4, 0.6}},
	}
	require.NoError(t, vasptest.WriteFile(dir, "run_1.xml", vasptest.Doc{
		Species: []string{"O", "H", "Xx"},
		Types:   []int{1, 2, 3},
		Potim:   0.5,
		Masses:  []float64{16, 1.008, 40},
		Basis:   [3][3]float64{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}},
		Frames:  frames,
	}))
	require.NoError(t, vasptest.WriteFile(dir, "run_2.xml", vasptest.Doc{
		Species: []string{"O", "H"},
		Types:   []int{1, 2},
		Potim:   1,
		Masses:  []float64{16, 1.008},
		Basis:   [3][3]float64{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}},
		Frames: [][][3]float64{
			{{0.5, 0.5, 0.6}, {0.6, 0.5, 0.6}},
			{{0.5, 0.5, 0.6}, {0.6, 0.5, 0.6}},
			{{0.5, 0.5, 0.7}, {0.6, 0.5, 0.7}},
		},
	}))

	out := filepath.Join(t.TempDir(), "summary.txt")
	xyz := filepath.Join(t.TempDir(), "traj.xyz")
	l, err := New(config(t, fmt.Sprintf("format = \"vasp\"\ndir = %q\nfile_out = %q\nxyz_out = %q\n", dir, out, xyz)))
	require.NoError(t, err)
	l.styles = species.NewTable(nil)
	require.NoError(t, l.Start())

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	s := string(content)
	assert.Contains(t, s, "valid true\n")
	assert.Contains(t, s, "atoms 3\n")
	assert.Contains(t, s, "steps 3\n")
	assert.Contains(t, s, "time 1.5\n")
	assert.Contains(t, s, "O 1 1 0.05 0.05 0.32\n")
	assert.Contains(t, s, "volume 1000\n")
	assert.Contains(t, s, "\n0 0.5\n2 1\n")
	assert.Contains(t, s, "\n1 1 [Xx_1]\n")

	content, err = os.ReadFile(xyz)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	// 3 + 3 + 2 atoms and 2 lines of header per frame.
	require.Len(t, lines, 14)
	assert.Equal(t, "3", lines[5])
	assert.Equal(t, "2", lines[10])
}

func TestStartInvalid(t *testing.T) {
	out := filepath.Join(t.TempDir(), "summary.txt")
	l, err := New(config(t, fmt.Sprintf("format = \"vasp\"\ndir = %q\nfile_out = %q\n", t.TempDir(), out)))
	require.NoError(t, err)
	l.styles = species.NewTable(nil)

	err = l.Start()
	assert.ErrorIs(t, err, traj.ErrInvalid)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "valid false\n")
}
