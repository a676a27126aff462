package bonds

import (
	"math/rand/v2"
	"testing"

	"github.com/kpotier/molview/pkg/cell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTwoAtoms(t *testing.T) {
	frame := [][3]float64{{0, 0, 0}, {0, 0, 1.5}}

	for axis := 0; axis < 3; axis++ {
		m := Detect(frame, axis, 1.8, []int{0, 1}, nil)
		assert.Equal(t, NeighborMap{0: {1}, 1: {0}}, m, "axis %d", axis)
	}

	raw := Scan(frame, 2, 1.8, SortByAxis(frame, []int{0, 1}, 2), nil)
	assert.Equal(t, []int{1}, raw[0])
	assert.Empty(t, raw[1])

	m := Detect(frame, 2, 1.4, []int{0, 1}, nil)
	assert.Empty(t, m[0])
	assert.Empty(t, m[1])
}

func random(n int, r *rand.Rand) [][3]float64 {
	frame := make([][3]float64, n)
	for i := range frame {
		for k := 0; k < 3; k++ {
			frame[i][k] = r.Float64() * 10
		}
	}
	return frame
}

func brute(frame [][3]float64, cutoff float64, a, b []int) NeighborMap {
	if b == nil {
		b = a
	}
	m := make(NeighborMap)
	for _, i := range a {
		for _, j := range b {
			if i != j && dist(frame[i], frame[j]) <= cutoff {
				m[i] = append(m[i], j)
				m[j] = append(m[j], i)
			}
		}
	}
	return m
}

func TestDetectBrute(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	frame := random(200, r)

	var all []int
	for i := range frame {
		all = append(all, i)
	}

	for axis := 0; axis < 3; axis++ {
		m := Detect(frame, axis, 1.5, all, nil)
		want := brute(frame, 1.5, all, nil)
		for _, i := range all {
			assert.ElementsMatch(t, uniq(want[i]), m[i], "atom %d", i)
		}
	}
}

func TestDetectCrossSpecies(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	frame := random(150, r)

	var a, b []int
	for i := range frame {
		if i%3 == 0 {
			a = append(a, i)
		} else {
			b = append(b, i)
		}
	}

	m := Detect(frame, 1, 1.5, a, b)
	want := brute(frame, 1.5, a, b)
	require.Len(t, m, len(frame))
	for i := range frame {
		assert.ElementsMatch(t, uniq(want[i]), m[i], "atom %d", i)
		for _, j := range m[i] {
			assert.NotEqual(t, i%3 == 0, j%3 == 0, "%d-%d", i, j)
		}
	}
}

func uniq(v []int) []int {
	seen := make(map[int]bool)
	var res []int
	for _, i := range v {
		if !seen[i] {
			seen[i] = true
			res = append(res, i)
		}
	}
	return res
}

func TestDetectAbsent(t *testing.T) {
	frame := [][3]float64{{0, 0, 0}, cell.Absent(), {0, 0, 1}}

	m := Detect(frame, 0, 2, []int{0, 1, 2}, nil)
	assert.Equal(t, NeighborMap{0: {2}, 1: {}, 2: {0}}, m)
	assert.Equal(t, 1, m.Pairs())
	assert.Equal(t, []int{0, 2}, SortByAxis(frame, []int{2, 1, 0}, 2))
}

func TestDetectAll(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	frames := make([][][3]float64, 20)
	for f := range frames {
		frames[f] = random(50, r)
	}
	all := make([]int, 50)
	for i := range all {
		all[i] = i
	}

	res := DetectAll(frames, 0, 2, all, nil)
	require.Len(t, res, len(frames))
	for f, m := range res {
		assert.Equal(t, Detect(frames[f], 0, 2, all, nil), m, "frame %d", f)
	}
}

func TestChooseAxis(t *testing.T) {
	// The extent along x varies by 4, along y by 2, along z not at all.
	frames := [][][3]float64{
		{{0, 0, 0}, {1, 1, 1}},
		{{0, 0, 0}, {3, 2, 1}},
		{{0, 0, 0}, {5, 3, 1}, cell.Absent()},
	}
	assert.Equal(t, 1, ChooseAxis(frames, 0))
	assert.Equal(t, 1, ChooseAxis(frames, 2))

	// Ties keep the order of the axes.
	still := [][][3]float64{{{0, 0, 0}, {1, 1, 1}}}
	assert.Equal(t, 1, ChooseAxis(still, 10))
}
