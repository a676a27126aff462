package traj

import (
	"math"
	"strings"

	"github.com/kpotier/molview/pkg/vasp"
)

// Tolerance is the largest difference between two components of a position
// for them to be considered equal when runs are aligned.
const Tolerance = 1e-6

// Reconcile merges the files of a VASP run into one trajectory. The atoms
// and the basis come from the first file. When a file has fewer atoms than
// the previous one, its first frame is aligned with the last frame of the
// previous file to find which atoms have been removed; their slots are filled
// with Sentinel in every later frame. A first frame repeating the last frame
// of the previous file is dropped.
//
// Runs which cannot be aligned, or which add atoms, give an invalid
// trajectory.
func Reconcile(run *vasp.Run) *Trajectory {
	t := &Trajectory{Kind: Direct}
	switch {
	case run == nil:
		return t.invalid("no run")
	case run.Corrupted:
		return t.invalid("%s", run.Message)
	case len(run.Files) == 0:
		return t.invalid("no file in %s", run.Dir)
	}

	first := run.Files[0]
	n0 := first.Atoms
	t.Basis = first.Basis
	t.setAtoms(first.Species, first.Types, func(i int) float64 {
		typ := first.Types[i] - 1
		if typ < 0 || typ >= len(first.Masses) {
			return 0
		}
		return first.Masses[typ]
	})

	removed := make(RemovedMask, n0)
	present := make([]int, n0) // raw index of the current run -> atom index
	for i := range present {
		present[i] = i
	}

	for i, f := range run.Files {
		var start int
		if i > 0 {
			prev := run.Files[i-1]
			last := prev.Frames[len(prev.Frames)-1]
			head := f.Frames[0]

			switch {
			case f.Atoms > prev.Atoms:
				return t.invalid("%s has %d atoms but %s has %d: runs represent incompatible calculations",
					f.Name, f.Atoms, prev.Name, prev.Atoms)

			case f.Atoms < prev.Atoms:
				gone, ok := align(last, head)
				if !ok {
					return t.invalid("cannot align the first frame of %s with the last frame of %s: runs represent incompatible calculations",
						f.Name, prev.Name)
				}

				kept := make([]int, 0, f.Atoms)
				for raw, at := range present {
					if gone[raw] {
						removed[at] = true
						continue
					}
					kept = append(kept, at)
				}
				present = kept

				if n := removed.Count(); n != n0-f.Atoms {
					return t.invalid("%d atoms removed before %s but %d expected (%d - %d): runs represent incompatible calculations",
						n, f.Name, n0-f.Atoms, n0, f.Atoms)
				}
				start = 1

			default:
				if equal(last, head) {
					start = 1
				}
			}

			for raw, at := range present {
				if strings.TrimSpace(f.Species[raw]) != t.Atoms[at].Species {
					return t.invalid("atom %d of %s is %s but %s is expected: runs represent incompatible calculations",
						raw, f.Name, strings.TrimSpace(f.Species[raw]), t.Atoms[at].ID)
				}
			}
		}

		mask := make(RemovedMask, n0)
		copy(mask, removed)
		t.Removed = append(t.Removed, mask)

		if start >= len(f.Frames) {
			continue
		}

		t.TimeSteps = append(t.TimeSteps, f.Potim)
		t.StepIndex = append(t.StepIndex, len(t.Frames))
		for _, frame := range f.Frames[start:] {
			t.Frames = append(t.Frames, pad(frame, present, n0))
		}
	}

	t.Steps = len(t.Frames)
	t.Valid = true
	return t
}

// align walks the atoms of last in order and matches them with the atoms of
// head. An atom of last which doesn't match the next unmatched atom of head
// is gone. The alignment succeeds if every atom of head has been matched.
func align(last, head [][3]float64) (gone []bool, ok bool) {
	gone = make([]bool, len(last))

	var k int
	for j := range last {
		if k < len(head) && near(last[j], head[k]) {
			k++
			continue
		}
		gone[j] = true
	}

	return gone, k == len(head)
}

// pad expands a frame of a run into a frame holding every atom of the first
// run. Removed atoms get the Sentinel.
func pad(frame [][3]float64, present []int, n int) [][3]float64 {
	if len(present) == n {
		return frame
	}

	res := make([][3]float64, n)
	for i := range res {
		res[i] = Sentinel
	}
	for raw, at := range present {
		res[at] = frame[raw]
	}
	return res
}

func near(a, b [3]float64) bool {
	for k := 0; k < 3; k++ {
		if math.Abs(a[k]-b[k]) > Tolerance {
			return false
		}
	}
	return true
}

func equal(a, b [][3]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}
