// Package bonds finds the neighbors of atoms within a cutoff distance. Atoms
// are sorted along one axis so that only the atoms inside a window of width
// 2*cutoff along this axis are compared in three dimensions.
package bonds

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/kpotier/molview/pkg/cell"
	"gonum.org/v1/gonum/floats"
)

// Samples is the number of frames used by ChooseAxis when samples <= 0.
const Samples = 10

// NeighborMap maps an atom index to the indices of its neighbors.
type NeighborMap map[int][]int

// Pairs returns the number of distinct pairs of neighbors. The map must be
// symmetric.
func (m NeighborMap) Pairs() (n int) {
	for i, v := range m {
		for _, j := range v {
			if i < j {
				n++
			}
		}
	}
	return
}

// ChooseAxis samples evenly spaced frames and measures, for each axis, the
// extent of the atoms in each sample. It returns the axis whose extent varies
// the second most across the samples. Absent atoms are ignored.
func ChooseAxis(frames [][][3]float64, samples int) int {
	if samples <= 0 {
		samples = Samples
	}
	if samples > len(frames) {
		samples = len(frames)
	}

	var extents [3][]float64
	for s := 0; s < samples; s++ {
		f := 0
		if samples > 1 {
			f = s * (len(frames) - 1) / (samples - 1)
		}

		for k := 0; k < 3; k++ {
			var coords []float64
			for _, v := range frames[f] {
				if !cell.IsAbsent(v) {
					coords = append(coords, v[k])
				}
			}
			if len(coords) == 0 {
				continue
			}
			extents[k] = append(extents[k], floats.Max(coords)-floats.Min(coords))
		}
	}

	var variation [3]float64
	for k, v := range extents {
		if len(v) > 0 {
			variation[k] = floats.Max(v) - floats.Min(v)
		}
	}

	axes := []int{0, 1, 2}
	sort.SliceStable(axes, func(i, j int) bool {
		return variation[axes[i]] < variation[axes[j]]
	})
	return axes[len(axes)-2]
}

// SortByAxis returns the atoms sorted by their coordinate along the axis.
// Absent atoms are dropped.
func SortByAxis(frame [][3]float64, atoms []int, axis int) []int {
	res := make([]int, 0, len(atoms))
	for _, i := range atoms {
		if !cell.IsAbsent(frame[i]) {
			res = append(res, i)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return frame[res[i]][axis] < frame[res[j]][axis]
	})
	return res
}

// Scan searches the neighbors of the atoms of a among the atoms of b, both
// sorted with SortByAxis. When b is nil, a is searched against itself and an
// atom only looks for neighbors placed after it in a: the result is not
// symmetric. Every atom of a has a key.
func Scan(frame [][3]float64, axis int, cutoff float64, a, b []int) NeighborMap {
	m := make(NeighborMap, len(a))
	for _, i := range a {
		m[i] = nil
	}

	if b == nil {
		for p := 0; p < len(a)-1; p++ {
			i := a[p]
			x := frame[i][axis]
			rest := a[p+1:]
			k := sort.Search(len(rest), func(q int) bool {
				return frame[rest[q]][axis]-x > cutoff
			})
			for _, j := range rest[:k] {
				if dist(frame[i], frame[j]) <= cutoff {
					m[i] = append(m[i], j)
				}
			}
		}
		return m
	}

	for _, i := range a {
		x := frame[i][axis]
		lo := sort.Search(len(b), func(q int) bool {
			return frame[b[q]][axis] >= x-cutoff
		})
		hi := sort.Search(len(b), func(q int) bool {
			return frame[b[q]][axis] > x+cutoff
		})
		for _, j := range b[lo:hi] {
			if j != i && dist(frame[i], frame[j]) <= cutoff {
				m[i] = append(m[i], j)
			}
		}
	}
	return m
}

// Detect returns the neighbors of the atoms of a (b nil) or the neighbors
// between the atoms of a and the atoms of b. The map is symmetric: every atom
// of a and b has a key, and lists are sorted in ascending order.
func Detect(frame [][3]float64, axis int, cutoff float64, a, b []int) NeighborMap {
	sa := SortByAxis(frame, a, axis)
	var sb []int
	if b != nil {
		sb = SortByAxis(frame, b, axis)
	}
	raw := Scan(frame, axis, cutoff, sa, sb)

	sets := make(map[int]map[int]struct{}, len(a)+len(b))
	for _, i := range a {
		sets[i] = make(map[int]struct{})
	}
	for _, i := range b {
		sets[i] = make(map[int]struct{})
	}
	for i, v := range raw {
		for _, j := range v {
			if i == j {
				continue
			}
			sets[i][j] = struct{}{}
			sets[j][i] = struct{}{}
		}
	}

	m := make(NeighborMap, len(sets))
	for i, set := range sets {
		v := make([]int, 0, len(set))
		for j := range set {
			v = append(v, j)
		}
		sort.Ints(v)
		m[i] = v
	}
	return m
}

// DetectAll runs Detect on every frame. Frames are shared between
// runtime.NumCPU() goroutines.
func DetectAll(frames [][][3]float64, axis int, cutoff float64, a, b []int) []NeighborMap {
	res := make([]NeighborMap, len(frames))

	var (
		cfg int
		mux sync.Mutex
		wg  sync.WaitGroup
	)

	start := func() {
		defer wg.Done()
		for {
			mux.Lock()
			f := cfg
			cfg++
			mux.Unlock()

			if f >= len(frames) {
				return
			}
			res[f] = Detect(frames[f], axis, cutoff, a, b)
		}
	}

	for i := 0; i < runtime.NumCPU(); i++ {
		wg.Add(1)
		go start()
	}
	wg.Wait()

	return res
}

func dist(a, b [3]float64) float64 {
	var d float64
	for k := 0; k < 3; k++ {
		d += (a[k] - b[k]) * (a[k] - b[k])
	}
	return math.Sqrt(d)
}
