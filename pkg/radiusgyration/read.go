package radiusgyration

import (
	"fmt"

	"github.com/kpotier/molview/pkg/traj"
)

// lookup checks the ranges of atoms and configurations and sets the mass of
// each atom of the molecule.
func (r *RadiusGyration) lookup(data *traj.Dataset) error {
	if r.AtomEnd > len(data.Atoms) {
		return fmt.Errorf("AtomEnd is greater than the number of atoms (%d > %d)", r.AtomEnd, len(data.Atoms))
	}

	if r.CfgEnd > data.Steps {
		return fmt.Errorf("CfgEnd is greater than the number of configurations (%d > %d)", r.CfgEnd, data.Steps)
	}

	r.masses = make([]float64, 0, r.AtomEnd-r.AtomStart)
	for _, at := range data.Atoms[r.AtomStart:r.AtomEnd] {
		mass, ok := r.Masses[at.Species]
		if !ok {
			mass = at.Mass
		}
		if mass <= 0 {
			return fmt.Errorf("mass for atom type `%s` doesn't exist", at.Species)
		}
		r.masses = append(r.masses, mass)
	}

	return nil
}

// fetchXYZ returns the Cartesian coordinates of the atoms of the molecule.
// Removed atoms are absent markers (see cell.IsAbsent).
func (r *RadiusGyration) fetchXYZ(data *traj.Dataset, cfg int) [][3]float64 {
	return data.Cartesian[cfg][r.AtomStart:r.AtomEnd]
}
