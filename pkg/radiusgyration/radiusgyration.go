// Package radiusgyration calculates the radius of gyration of a molecule.
package radiusgyration

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/kpotier/molview/pkg/cell"
	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/traj"
	"github.com/kpotier/molview/pkg/util"
)

// Type is name of the calculation.
var Type = "radius_gyration"

// RadiusGyration is a structure containing the parameters that can be parsed
// from a configuration file. This structure can be instanced through the New
// method. The molecule is made of the atoms AtomStart to AtomEnd (excluded).
// Masses overrides the masses read from the run, per species.
// AtomStart must be lower than AtomEnd. Same for CfgStart and CfgEnd.
type RadiusGyration struct {
	Format  string `toml:"format" yaml:"format"`
	Dir     string `toml:"dir" yaml:"dir"`
	FileOut string `toml:"file_out" yaml:"file_out"`

	CfgStart int `toml:"cfg_start" yaml:"cfg_start"`
	CfgEnd   int `toml:"cfg_end" yaml:"cfg_end"`

	AtomStart int                `toml:"atom_start" yaml:"atom_start"`
	AtomEnd   int                `toml:"atom_end" yaml:"atom_end"`
	Masses    map[string]float64 `toml:"masses" yaml:"masses"`

	styles *species.Table
	masses []float64
}

// New returns an instance of the RadiusGyration structure. It reads and parses
// the configuration file given in argument.
func New(path string) (*RadiusGyration, error) {
	var radiusgyration RadiusGyration
	err := util.Decode(path, &radiusgyration)
	if err != nil {
		return nil, err
	}

	if radiusgyration.CfgStart < 0 || radiusgyration.AtomStart < 0 {
		return nil, errors.New("CfgStart or AtomStart is negative")
	}

	if radiusgyration.CfgStart >= radiusgyration.CfgEnd {
		return nil, errors.New("CfgStart is greater or equal than CfgEnd")
	}

	if radiusgyration.AtomStart >= radiusgyration.AtomEnd {
		return nil, errors.New("AtomStart is greater or equal than AtomEnd")
	}

	radiusgyration.styles = species.Default
	return &radiusgyration, nil
}

// Start performs the calculation. It is a thread blocking method. It is a very
// fast calculation. This calculation only use one thread.
func (r *RadiusGyration) Start() error {
	data, err := traj.Load(r.Format, r.Dir, r.styles)
	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}

	err = r.lookup(data)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	out, err := util.Write(r.FileOut, r)
	if err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	defer out.Close()
	out.WriteString("cfg t radius\n")

	for cfg := r.CfgStart; cfg < r.CfgEnd; cfg++ {
		r.calc(out, cfg, data.Times[cfg], r.fetchXYZ(data, cfg))
	}

	return nil
}

// calc calculates the mass-weighted radius of gyration and writes the result
// into a file. Removed atoms are skipped; nothing is written if every atom
// has been removed.
func (r *RadiusGyration) calc(w io.Writer, cfg int, t float64, xyz [][3]float64) {
	var (
		com     [3]float64
		massTot float64
	)

	for key, v := range xyz {
		if cell.IsAbsent(v) {
			continue
		}
		mass := r.masses[key]
		massTot += mass

		for k := 0; k < 3; k++ {
			com[k] += v[k] * mass
		}
	}

	if massTot == 0 {
		return
	}

	for k := 0; k < 3; k++ {
		com[k] /= massTot
	}

	var radius float64
	for key, v := range xyz {
		if cell.IsAbsent(v) {
			continue
		}
		for k := 0; k < 3; k++ {
			radius += r.masses[key] * util.Pow(v[k]-com[k], 2)
		}
	}

	radius = math.Sqrt(radius / massTot)
	fmt.Fprintf(w, "%d %g %g\n", cfg, t, radius)
}
