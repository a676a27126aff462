// Package nopbc converts a trajectory where the atoms follow the periodic
// boundary conditions into an extended XYZ file where the periodic boundary
// conditions no longer exist.
package nopbc

import (
	"errors"
	"fmt"
	"os"

	"github.com/kpotier/molview/pkg/cell"
	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/traj"
	"github.com/kpotier/molview/pkg/util"
)

// Type is name of the calculation.
var Type = "no_pbc"

// NoPBC is a structure containing the parameters that can be parsed from
// a configuration file. This structure can be instanced through the New
// method.
type NoPBC struct {
	Format  string `toml:"format" yaml:"format"`
	Dir     string `toml:"dir" yaml:"dir"`
	FileOut string `toml:"file_out" yaml:"file_out"`

	styles *species.Table
}

// New returns an instance of the NoPBC structure. It reads and parses
// the configuration file given in argument.
func New(path string) (*NoPBC, error) {
	var noPBC NoPBC
	err := util.Decode(path, &noPBC)
	if err != nil {
		return nil, err
	}

	if noPBC.FileOut == "" {
		return nil, errors.New("FileOut is empty")
	}

	noPBC.styles = species.Default
	return &noPBC, nil
}

// Start performs the calculation. It is a thread blocking method. This
// calculation only use one thread.
func (n *NoPBC) Start() error {
	d, err := traj.Load(n.Format, n.Dir, n.styles)
	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}

	frames := make([][][3]float64, len(d.Fractional))
	for f, frac := range Unwrap(d.Fractional) {
		frames[f] = cell.ToCartesian(frac, d.Basis)
	}

	out, err := os.Create(n.FileOut)
	if err != nil {
		return err
	}
	defer out.Close()

	err = d.WriteXYZ(out, frames)
	if err != nil {
		return fmt.Errorf("WriteXYZ: %w", err)
	}

	return nil
}
