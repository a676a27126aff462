// Package cell converts coordinates between the fractional (direct) and the
// Cartesian systems of a simulation cell. Fractional coordinates are centered
// on the origin: an atom inside the cell has each component in [-0.5, 0.5).
package cell

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrSingular is returned when the lattice basis cannot be inverted.
var ErrSingular = errors.New("singular lattice basis")

// Basis is a 3x3 matrix whose rows are the lattice vectors (Å).
type Basis [3][3]float64

// Dense returns the basis as a gonum matrix.
func (b Basis) Dense() *mat.Dense {
	data := make([]float64, 0, 9)
	for _, row := range b {
		data = append(data, row[:]...)
	}
	return mat.NewDense(3, 3, data)
}

// Inverse returns the inverse of the basis. A singular or near-singular basis
// returns an error wrapping ErrSingular.
func (b Basis) Inverse() (*mat.Dense, error) {
	var inv mat.Dense
	err := inv.Inverse(b.Dense())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return &inv, nil
}

// Volume returns the volume of the cell (Å³), |a·(b×c)|.
func (b Basis) Volume() float64 {
	return math.Abs(r3.Dot(b.vec(0), r3.Cross(b.vec(1), b.vec(2))))
}

func (b Basis) vec(i int) r3.Vec {
	return r3.Vec{X: b[i][0], Y: b[i][1], Z: b[i][2]}
}

// Scale returns the basis with every component multiplied by s.
func (b Basis) Scale(s float64) Basis {
	for i := range b {
		for k := range b[i] {
			b[i][k] *= s
		}
	}
	return b
}

// Vertices returns the 8 corners of the cell spanned by the basis, i*a + j*b +
// k*c for i, j, k in {0, 1}. The corner index is i<<2 | j<<1 | k.
func Vertices(b Basis) (v [8][3]float64) {
	for n := 0; n < 8; n++ {
		coef := [3]float64{float64(n >> 2 & 1), float64(n >> 1 & 1), float64(n & 1)}
		for row := 0; row < 3; row++ {
			for k := 0; k < 3; k++ {
				v[n][k] += coef[row] * b[row][k]
			}
		}
	}
	return
}

// Absent returns the marker used for an atom that is no longer part of the
// trajectory: NaN on every axis.
func Absent() [3]float64 {
	nan := math.NaN()
	return [3]float64{nan, nan, nan}
}

// IsAbsent reports whether xyz is an absent marker.
func IsAbsent(xyz [3]float64) bool {
	return math.IsNaN(xyz[0]) || math.IsNaN(xyz[1]) || math.IsNaN(xyz[2])
}

// ToFractional converts a frame of Cartesian coordinates into centered
// fractional coordinates: cart * B^-1 - 0.5.
func ToFractional(cart [][3]float64, b Basis) ([][3]float64, error) {
	inv, err := b.Inverse()
	if err != nil {
		return nil, err
	}

	res := mul(cart, inv)
	for i := range res {
		for k := 0; k < 3; k++ {
			res[i][k] -= 0.5
		}
	}
	return res, nil
}

// ToCartesian converts a frame of centered fractional coordinates into
// Cartesian coordinates: (frac + 0.5) * B.
func ToCartesian(frac [][3]float64, b Basis) [][3]float64 {
	shifted := make([][3]float64, len(frac))
	for i, v := range frac {
		for k := 0; k < 3; k++ {
			shifted[i][k] = v[k] + 0.5
		}
	}
	return mul(shifted, b.Dense())
}

// mul returns the frame multiplied by the 3x3 matrix m. Each row of the result
// only depends on the same row of the frame, so absent atoms stay absent.
func mul(frame [][3]float64, m mat.Matrix) [][3]float64 {
	res := make([][3]float64, len(frame))
	if len(frame) == 0 {
		return res
	}

	data := make([]float64, 0, 3*len(frame))
	for _, v := range frame {
		data = append(data, v[:]...)
	}

	var out mat.Dense
	out.Mul(mat.NewDense(len(frame), 3, data), m)

	raw := out.RawMatrix()
	for i := range res {
		copy(res[i][:], raw.Data[i*raw.Stride:i*raw.Stride+3])
	}
	return res
}
