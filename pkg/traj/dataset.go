package traj

import (
	"fmt"

	"github.com/kpotier/molview/pkg/cell"
	"github.com/kpotier/molview/pkg/qe"
	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/vasp"
)

// Formats accepted by Load.
const (
	FormatVASP = "vasp"
	FormatQE   = "qe"
)

// Dataset is a trajectory ready to be displayed or analyzed: positions in both
// coordinate systems, display styles and cell vertices. The positions of a
// removed atom are absent markers (see cell.IsAbsent) in both systems.
type Dataset struct {
	*Trajectory

	Styles   map[string]species.Style
	Vertices [8][3]float64

	Cartesian  [][][3]float64
	Fractional [][][3]float64 // centered, see package cell
	IDs        []string
	Times      []float64 // fs
}

// Build computes the dataset of a trajectory. An invalid trajectory gives a
// dataset without positions; Valid and Message must be checked. A singular
// basis returns an error.
func Build(t *Trajectory, styles *species.Table) (*Dataset, error) {
	d := &Dataset{Trajectory: t}
	if !t.Valid {
		return d, nil
	}

	_, err := t.Basis.Inverse()
	if err != nil {
		return nil, err
	}

	d.Styles = styles.Styles(t.Species)
	d.Vertices = cell.Vertices(t.Basis)
	d.Times = t.Times()

	d.IDs = make([]string, len(t.Atoms))
	for i, at := range t.Atoms {
		d.IDs[i] = at.ID
	}

	d.Cartesian = make([][][3]float64, len(t.Frames))
	d.Fractional = make([][][3]float64, len(t.Frames))
	for f, frame := range t.Frames {
		switch t.Kind {
		case Direct:
			frac := make([][3]float64, len(frame))
			for i, v := range frame {
				if v == Sentinel {
					frac[i] = cell.Absent()
					continue
				}
				for k := 0; k < 3; k++ {
					frac[i][k] = v[k] - 0.5
				}
			}
			d.Fractional[f] = frac
			d.Cartesian[f] = cell.ToCartesian(frac, t.Basis)

		case Cartesian:
			d.Cartesian[f] = frame
			d.Fractional[f], err = cell.ToFractional(frame, t.Basis)
			if err != nil {
				return nil, fmt.Errorf("ToFractional (frame %d): %w", f, err)
			}
		}
	}

	return d, nil
}

// Load reads the run located in dir with the parser of the format, assembles
// the trajectory and builds the dataset. An invalid trajectory returns an
// error wrapping ErrInvalid along with the dataset.
func Load(format, dir string, styles *species.Table) (*Dataset, error) {
	var t *Trajectory
	switch format {
	case FormatVASP:
		run, err := vasp.ParseDir(dir)
		if err != nil {
			return nil, fmt.Errorf("ParseDir: %w", err)
		}
		t = Reconcile(run)
	case FormatQE:
		run, err := qe.Parse(dir)
		if err != nil {
			return nil, fmt.Errorf("Parse: %w", err)
		}
		t = FromQE(run)
	default:
		return nil, fmt.Errorf("format `%s` doesn't exist (%s or %s)", format, FormatVASP, FormatQE)
	}

	d, err := Build(t, styles)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	if !d.Valid {
		return d, fmt.Errorf("%w: %s", ErrInvalid, d.Message)
	}
	return d, nil
}
