package disttwoatoms

import (
	"fmt"

	"github.com/kpotier/molview/pkg/cell"
	"github.com/kpotier/molview/pkg/traj"
)

// lookup finds the index of the two atoms and checks that the range of
// configurations exists.
func (d *DistTwoAtoms) lookup(data *traj.Dataset) error {
	for k, id := range [2]string{d.Atom1, d.Atom2} {
		i, ok := data.Index[id]
		if !ok {
			return fmt.Errorf("atom `%s` doesn't exist", id)
		}
		d.index[k] = i
	}

	if d.CfgEnd > data.Steps {
		return fmt.Errorf("CfgEnd is greater than the number of configurations (%d > %d)", d.CfgEnd, data.Steps)
	}

	return nil
}

// fetchXYZ returns the Cartesian coordinates of the two atoms. It returns false
// if one of them has been removed.
func (d *DistTwoAtoms) fetchXYZ(data *traj.Dataset, cfg int) (xyz1, xyz2 [3]float64, ok bool) {
	xyz1 = data.Cartesian[cfg][d.index[0]]
	xyz2 = data.Cartesian[cfg][d.index[1]]
	return xyz1, xyz2, !cell.IsAbsent(xyz1) && !cell.IsAbsent(xyz2)
}
