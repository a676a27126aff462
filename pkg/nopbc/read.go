package nopbc

import "github.com/kpotier/molview/pkg/cell"

// Unwrap removes the jumps of the atoms crossing a face of the cell. frames
// are in fractional coordinates: an atom moving by more than half of the cell
// between two frames is brought back next to its previous position. Removed
// atoms stay absent. frames is left untouched.
func Unwrap(frames [][][3]float64) [][][3]float64 {
	if len(frames) == 0 {
		return nil
	}

	res := make([][][3]float64, len(frames))
	res[0] = append([][3]float64(nil), frames[0]...)
	corr := make([][3]float64, len(frames[0]))

	for f := 1; f < len(frames); f++ {
		last := res[f-1]
		res[f] = make([][3]float64, len(frames[f]))

		for i, v := range frames[f] {
			if cell.IsAbsent(v) {
				res[f][i] = v
				continue
			}

			var xyz [3]float64
			for k := 0; k < 3; k++ {
				xyz[k] = v[k] + corr[i][k]

				dist := last[i][k] - xyz[k]
				if dist > 0.5 {
					corr[i][k]++
					xyz[k]++
				} else if dist < -0.5 {
					corr[i][k]--
					xyz[k]--
				}
			}
			res[f][i] = xyz
		}
	}

	return res
}
