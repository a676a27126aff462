package cfg

import (
	"errors"
	"fmt"

	"github.com/kpotier/molview/pkg/bonds"
	"github.com/kpotier/molview/pkg/disttwoatoms"
	"github.com/kpotier/molview/pkg/gr"
	"github.com/kpotier/molview/pkg/load"
	"github.com/kpotier/molview/pkg/nopbc"
	"github.com/kpotier/molview/pkg/radiusgyration"
	"github.com/kpotier/molview/pkg/volume"
)

// ErrUnknown is returned by Launch when the calculation doesn't exist.
var ErrUnknown = errors.New("unknown calculation")

// Calculation is an interface that only contains one method: Start. Every
// calculation must have a Start method that will launch the calculation. It
// must be a thread blocking method.
type Calculation interface {
	Start() error
}

// Launch launchs a specific calculation. It is a thread blocking method. The
// parameters required to launch the calculation must be in a file.
func Launch(name string, path string) error {
	var (
		err error
		cal Calculation
	)

	switch name {
	case load.Type:
		cal, err = load.New(path)
	case bonds.Type:
		cal, err = bonds.New(path)
	case nopbc.Type:
		cal, err = nopbc.New(path)
	case disttwoatoms.Type:
		cal, err = disttwoatoms.New(path)
	case radiusgyration.Type:
		cal, err = radiusgyration.New(path)
	case gr.Type:
		cal, err = gr.New(path)
	case volume.Type:
		cal, err = volume.New(path)
	default:
		return fmt.Errorf("%w: `%s`", ErrUnknown, name)
	}

	if err != nil {
		return fmt.Errorf("%s: New: %w", name, err)
	}

	err = cal.Start()
	if err != nil {
		return fmt.Errorf("%s: Start: %w", name, err)
	}

	return nil
}
