package gr

import (
	"fmt"

	"github.com/kpotier/molview/pkg/cell"
	"github.com/kpotier/molview/pkg/traj"
)

// fetchAtoms returns the atoms of the two species of the pair. The second
// slice is nil if both species are the same.
func (g *GR) fetchAtoms(data *traj.Dataset, key [2]string) (at1, at2 []int, err error) {
	at1 = data.BySpecies(key[0])
	if len(at1) == 0 {
		return nil, nil, fmt.Errorf("atom type `%s` doesn't exist", key[0])
	}

	if key[0] == key[1] {
		return at1, nil, nil
	}

	at2 = data.BySpecies(key[1])
	if len(at2) == 0 {
		return nil, nil, fmt.Errorf("atom type `%s` doesn't exist", key[1])
	}

	return at1, at2, nil
}

// present returns the number of atoms which haven't been removed.
func present(frame [][3]float64, atoms []int) float64 {
	var n float64
	for _, i := range atoms {
		if !cell.IsAbsent(frame[i]) {
			n++
		}
	}
	return n
}
