// Package traj assembles the output of a run parser into a single trajectory
// and builds the dataset consumed by the calculations. For VASP, it reconciles
// several run segments whose number of atoms decreases over time.
package traj

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kpotier/molview/pkg/cell"
)

// ErrInvalid is returned by Load when the trajectory couldn't be assembled.
var ErrInvalid = errors.New("invalid trajectory")

// Kind is the coordinate system of the frames of a Trajectory.
type Kind int

// Direct frames hold uncentered fractional coordinates (VASP). Cartesian frames
// hold coordinates in Å (QE).
const (
	Direct Kind = iota
	Cartesian
)

// Sentinel fills the slot of a removed atom in a Direct frame. It lies
// outside of the cell.
var Sentinel = [3]float64{10, 10, 10}

// Atom identifies one atom of the trajectory.
type Atom struct {
	ID      string // species_ordinal, e.g. O_3
	Species string
	Index   int
	Type    int
	Mass    float64
}

// RemovedMask has one value per atom of the first run. True means the atom
// is absent from the run and from every later run.
type RemovedMask []bool

// Count returns the number of removed atoms.
func (m RemovedMask) Count() (n int) {
	for _, v := range m {
		if v {
			n++
		}
	}
	return
}

// Trajectory is an ordered list of frames sharing the same atoms. Every frame
// has len(Atoms) positions.
type Trajectory struct {
	Kind Kind

	Atoms   []Atom
	Index   map[string]int // ID -> index
	Species []string       // distinct, in order of appearance

	Frames  [][][3]float64
	Removed []RemovedMask // one per run

	TimeSteps []float64 // fs
	StepIndex []int     // first frame of each time step
	Steps     int

	Basis cell.Basis

	Valid   bool
	Message string
}

// invalid marks the trajectory as invalid. Frames are dropped so that nothing
// partial is used.
func (t *Trajectory) invalid(format string, a ...interface{}) *Trajectory {
	t.Valid = false
	t.Message = fmt.Sprintf(format, a...)
	t.Frames = nil
	t.Steps = 0
	return t
}

// setAtoms builds the atom list, the ID map and the species list. Species
// names are trimmed.
func (t *Trajectory) setAtoms(species []string, types []int, mass func(i int) float64) {
	t.Atoms = make([]Atom, len(species))
	t.Index = make(map[string]int, len(species))
	t.Species = nil

	ordinal := make(map[string]int)
	for i, v := range species {
		name := strings.TrimSpace(v)
		if ordinal[name] == 0 {
			t.Species = append(t.Species, name)
		}
		ordinal[name]++

		at := Atom{
			ID:      fmt.Sprintf("%s_%d", name, ordinal[name]),
			Species: name,
			Index:   i,
			Mass:    mass(i),
		}
		if i < len(types) {
			at.Type = types[i]
		}

		t.Atoms[i] = at
		t.Index[at.ID] = i
	}
}

// BySpecies returns the indices of the atoms of the species.
func (t *Trajectory) BySpecies(name string) []int {
	var res []int
	for _, at := range t.Atoms {
		if at.Species == name {
			res = append(res, at.Index)
		}
	}
	return res
}

// TimeStep returns the time step (fs) used to reach frame f from frame f-1.
func (t *Trajectory) TimeStep(f int) float64 {
	var dt float64
	for k, start := range t.StepIndex {
		if start > f {
			break
		}
		dt = t.TimeSteps[k]
	}
	return dt
}

// Times returns the time (fs) of every frame, the first frame being at 0.
func (t *Trajectory) Times() []float64 {
	res := make([]float64, len(t.Frames))
	for f := 1; f < len(res); f++ {
		res[f] = res[f-1] + t.TimeStep(f)
	}
	return res
}
