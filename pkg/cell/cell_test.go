package cell

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triclinic = Basis{
	{5.2, 0, 0},
	{1.1, 6.3, 0},
	{-0.7, 0.4, 7.9},
}

func TestRoundTrip(t *testing.T) {
	frac := [][3]float64{
		{0, 0, 0},
		{-0.5, -0.5, -0.5},
		{0.49, -0.12, 0.33},
		{1.7, -2.2, 0.05},
	}

	for _, b := range []Basis{triclinic, Basis{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}}} {
		back, err := ToFractional(ToCartesian(frac, b), b)
		require.NoError(t, err)
		require.Len(t, back, len(frac))
		for i := range frac {
			for k := 0; k < 3; k++ {
				assert.InDelta(t, frac[i][k], back[i][k], 1e-12)
			}
		}
	}
}

func TestToCartesian(t *testing.T) {
	b := Basis{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}}
	cart := ToCartesian([][3]float64{{-0.5, 0, 0.25}}, b)
	assert.InDeltaSlice(t, []float64{0, 5, 7.5}, cart[0][:], 1e-12)
}

func TestSingular(t *testing.T) {
	b := Basis{{1, 0, 0}, {2, 0, 0}, {0, 0, 1}}
	_, err := ToFractional([][3]float64{{1, 1, 1}}, b)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestAbsentRowsStayAbsent(t *testing.T) {
	frame := [][3]float64{{0.1, 0.2, 0.3}, Absent(), {-0.3, 0.1, 0}}
	cart := ToCartesian(frame, triclinic)
	assert.False(t, IsAbsent(cart[0]))
	assert.True(t, IsAbsent(cart[1]))
	assert.False(t, IsAbsent(cart[2]))

	frac, err := ToFractional(cart, triclinic)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, frac[0][1], 1e-12)
	assert.True(t, IsAbsent(frac[1]))
}

func TestVertices(t *testing.T) {
	v := Vertices(triclinic)
	assert.Equal(t, [3]float64{0, 0, 0}, v[0])
	assert.Equal(t, triclinic[2], v[1])
	assert.Equal(t, triclinic[1], v[2])
	assert.Equal(t, triclinic[0], v[4])
	for k := 0; k < 3; k++ {
		assert.InDelta(t, triclinic[0][k]+triclinic[1][k]+triclinic[2][k], v[7][k], 1e-12)
	}
}

func TestVolume(t *testing.T) {
	assert.InDelta(t, 5.2*6.3*7.9, triclinic.Volume(), 1e-9)
	assert.Equal(t, 1000., Basis{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}}.Volume())
	assert.Equal(t, 8., Basis{{0, 0, 2}, {0, 2, 0}, {2, 0, 0}}.Volume())
	assert.False(t, math.IsNaN(triclinic.Volume()))
}

func TestScale(t *testing.T) {
	b := Basis{{2, 0, 0}, {0, 4, 0}, {1, 0, 8}}
	assert.Equal(t, Basis{{1, 0, 0}, {0, 2, 0}, {0.5, 0, 4}}, b.Scale(0.5))
	assert.Equal(t, 2., b[0][0])
}
