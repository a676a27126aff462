package nopbc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kpotier/molview/pkg/cell"
	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/vasp/vasptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap(t *testing.T) {
	frames := [][][3]float64{
		{{0.45, 0, 0}, {0, 0, 0}},
		{{-0.45, 0, 0}, cell.Absent()},
		{{-0.35, 0, -0.1}, cell.Absent()},
	}

	res := Unwrap(frames)
	require.Len(t, res, 3)
	assert.InDelta(t, 0.55, res[1][0][0], 1e-9)
	assert.InDelta(t, 0.65, res[2][0][0], 1e-9)
	assert.InDelta(t, -0.1, res[2][0][2], 1e-9)
	assert.True(t, cell.IsAbsent(res[2][1]))
	assert.Equal(t, -0.45, frames[1][0][0])

	assert.Nil(t, Unwrap(nil))
}

func TestStart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, vasptest.WriteFile(dir, "vasprun.xml", vasptest.Doc{
		Species: []string{"O", "H"},
		Types:   []int{1, 2},
		Potim:   1,
		Masses:  []float64{16, 1.008},
		Basis:   [3][3]float64{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}},
		Frames: [][][3]float64{
			{{0.95, 0.5, 0.5}, {0.5, 0.5, 0.5}},
			{{0.95, 0.5, 0.5}, {0.5, 0.5, 0.5}},
			{{0.05, 0.5, 0.5}, {0.5, 0.5, 0.5}},
		},
	}))

	out := filepath.Join(t.TempDir(), "traj.xyz")
	cfg := filepath.Join(t.TempDir(), "nopbc.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf("format: vasp\ndir: %s\nfile_out: %s\n", dir, out)), 0644))

	n, err := New(cfg)
	require.NoError(t, err)
	n.styles = species.NewTable(nil)
	require.NoError(t, n.Start())

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "2", lines[0])
	assert.Contains(t, lines[1], `Lattice="10 0 0 0 10 0 0 0 10"`)
	assert.Contains(t, lines[5], "Time=1")

	fields := strings.Fields(lines[6])
	require.Len(t, fields, 4)
	assert.Equal(t, "O", fields[0])
	assert.Equal(t, "10.50000000", fields[1])
}

func TestNewEmptyOutput(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "nopbc.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("format = \"vasp\"\n"), 0644))
	_, err := New(cfg)
	assert.Error(t, err)
}
