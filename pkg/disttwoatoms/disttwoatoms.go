// Package disttwoatoms calculates the distance between two atoms over time.
package disttwoatoms

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/traj"
	"github.com/kpotier/molview/pkg/util"
)

// Type is name of the calculation.
var Type = "dist_two_atoms"

// DistTwoAtoms is a structure containing the parameters that can be parsed from
// a configuration file. This structure can be instanced through the New
// method. Atoms are designated by their ID (e.g. O_1).
// Atom1 must be different from Atom2. CfgStart must be lower than CfgEnd.
type DistTwoAtoms struct {
	Format  string `toml:"format" yaml:"format"`
	Dir     string `toml:"dir" yaml:"dir"`
	FileOut string `toml:"file_out" yaml:"file_out"`

	CfgStart int `toml:"cfg_start" yaml:"cfg_start"`
	CfgEnd   int `toml:"cfg_end" yaml:"cfg_end"`

	Atom1 string `toml:"atom_1" yaml:"atom_1"`
	Atom2 string `toml:"atom_2" yaml:"atom_2"`

	styles *species.Table
	index  [2]int
}

// New returns an instance of the DistTwoAtoms structure. It reads and parses
// the configuration file given in argument.
func New(path string) (*DistTwoAtoms, error) {
	var distTwoAtoms DistTwoAtoms
	err := util.Decode(path, &distTwoAtoms)
	if err != nil {
		return nil, err
	}

	if distTwoAtoms.CfgStart < 0 {
		return nil, errors.New("CfgStart is negative")
	}

	if distTwoAtoms.CfgStart >= distTwoAtoms.CfgEnd {
		return nil, errors.New("CfgStart is greater or equal than CfgEnd")
	}

	if distTwoAtoms.Atom1 == distTwoAtoms.Atom2 {
		return nil, errors.New("Atom1 is equal to Atom2")
	}

	distTwoAtoms.styles = species.Default
	return &distTwoAtoms, nil
}

// Start performs the calculation. It is a thread blocking method. It is a very
// fast calculation. This calculation only use one thread.
func (d *DistTwoAtoms) Start() error {
	data, err := traj.Load(d.Format, d.Dir, d.styles)
	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}

	err = d.lookup(data)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	out, err := util.Write(d.FileOut, d)
	if err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	defer out.Close()
	out.WriteString("cfg t x y z dist\n")

	for cfg := d.CfgStart; cfg < d.CfgEnd; cfg++ {
		xyz1, xyz2, ok := d.fetchXYZ(data, cfg)
		if !ok {
			continue
		}
		d.result(out, cfg, data.Times[cfg], xyz1, xyz2)
	}

	return nil
}

// result calculates the distance between two set of coordinates and writes it
// into a file.
func (d *DistTwoAtoms) result(w io.Writer, cfg int, t float64, xyz1, xyz2 [3]float64) {
	var (
		vec  [3]float64
		dist float64
	)

	for k := 0; k < 3; k++ {
		vec[k] = (xyz1[k] - xyz2[k])
		dist += util.Pow(vec[k], 2)
	}
	dist = math.Sqrt(dist)

	fmt.Fprintf(w, "%d %g %g %g %g %g\n", cfg, t, vec[0], vec[1], vec[2], dist)
}
