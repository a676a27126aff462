// Package qe reads the output of a Car-Parrinello run of Quantum ESPRESSO
// (cp.x): the positions, velocities and cell files, and the input file of the
// run. Everything is converted from atomic units to Å and fs.
package qe

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/kpotier/molview/pkg/cell"
)

// Conversion factors from atomic units.
const (
	BohrPerAngstrom = 1.8897261246
	AUPerFs         = 41.341373335
)

// ErrFormat is wrapped by every error caused by a malformed file.
var ErrFormat = errors.New("malformed qe output")

// Run is the result of Parse. If Found is false, the required files couldn't
// be found. If Corrupted is true, a file is malformed. In both cases Message
// explains why and nothing else must be trusted.
type Run struct {
	Found     bool
	Corrupted bool
	Message   string

	Files Files

	Atoms   int
	Types   int
	Species []string           // per atom
	Mass    map[string]float64 // per species
	Masses  []float64          // per atom
	TypeIDs []int              // per atom, 1-based order of ATOMIC_SPECIES

	Frames    [][][3]float64 // Cartesian, Å
	Steps     []int          // step index written in the positions file
	TimeSteps []float64      // fs
	StepIndex []int          // first frame reached with each time step
	Basis     cell.Basis
}

// Parse finds and reads the files of a run located somewhere under root.
// Missing files give Found == false and malformed files Corrupted == true.
// Only unexpected I/O errors are returned.
func Parse(root string) (*Run, error) {
	run := &Run{}

	files, ok, err := FindTriad(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			run.Message = fmt.Sprintf("%s doesn't exist", root)
			return run, nil
		}
		return nil, fmt.Errorf("FindTriad: %w", err)
	}
	if !ok {
		run.Message = fmt.Sprintf("no %s, %s and %s files sharing a name under %s", ExtPos, ExtVel, ExtCel, root)
		return run, nil
	}

	files.In, ok, err = FindInput(root)
	if err != nil {
		return nil, fmt.Errorf("FindInput: %w", err)
	}
	if !ok {
		run.Message = fmt.Sprintf("no %s file under %s", ExtIn, root)
		return run, nil
	}

	run.Found = true
	run.Files = files

	for _, step := range []struct {
		name string
		fn   func() error
	}{
		{"readInput", run.readInput},
		{"readCel", run.readCel},
		{"readPos", run.readPos},
	} {
		err := step.fn()
		if err != nil {
			if errors.Is(err, ErrFormat) {
				run.Corrupted = true
				run.Message = err.Error()
				run.Frames = nil
				return run, nil
			}
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return run, nil
}
