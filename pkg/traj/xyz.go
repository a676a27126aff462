package traj

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kpotier/molview/pkg/cell"
)

// WriteXYZ writes frames (Cartesian, one position per atom of the dataset)
// in the extended XYZ format. Removed atoms are not written, so the number
// of atoms may change from one frame to another.
func (d *Dataset) WriteXYZ(w io.Writer, frames [][][3]float64) error {
	bw := bufio.NewWriter(w)

	lattice := make([]string, 0, 9)
	for _, v := range d.Basis {
		for _, c := range v {
			lattice = append(lattice, fmt.Sprintf("%g", c))
		}
	}

	for f, frame := range frames {
		var n int
		for _, v := range frame {
			if !cell.IsAbsent(v) {
				n++
			}
		}

		fmt.Fprintf(bw, "%d\n", n)
		fmt.Fprintf(bw, "Lattice=\"%s\" Properties=species:S:1:pos:R:3 Time=%g\n",
			strings.Join(lattice, " "), d.Times[f])
		for i, v := range frame {
			if cell.IsAbsent(v) {
				continue
			}
			fmt.Fprintf(bw, "%-2s %14.8f %14.8f %14.8f\n", d.Atoms[i].Species, v[0], v[1], v[2])
		}
	}

	return bw.Flush()
}
