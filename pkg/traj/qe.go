package traj

import "github.com/kpotier/molview/pkg/qe"

// FromQE turns a QE run into a trajectory. A QE run is a single segment, so no
// atom is ever removed.
func FromQE(run *qe.Run) *Trajectory {
	t := &Trajectory{Kind: Cartesian}
	switch {
	case run == nil:
		return t.invalid("no run")
	case !run.Found, run.Corrupted:
		return t.invalid("%s", run.Message)
	}

	t.setAtoms(run.Species, run.TypeIDs, func(i int) float64 { return run.Masses[i] })
	t.Basis = run.Basis
	t.Frames = run.Frames
	t.Removed = []RemovedMask{make(RemovedMask, run.Atoms)}
	t.TimeSteps = run.TimeSteps
	t.StepIndex = run.StepIndex
	t.Steps = len(t.Frames)
	t.Valid = true
	return t
}
