// Package load loads a run and writes a summary of the dataset: species and
// their styles, atoms, cell and time steps. The positions can be exported in
// the extended XYZ format.
package load

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/traj"
	"github.com/kpotier/molview/pkg/util"
)

// Type is name of the calculation.
var Type = "load"

// Load is a structure containing the parameters that can be parsed from a
// configuration file. This structure can be instanced through the New method.
// XYZOut is optional.
type Load struct {
	Format  string `toml:"format" yaml:"format"`
	Dir     string `toml:"dir" yaml:"dir"`
	FileOut string `toml:"file_out" yaml:"file_out"`
	XYZOut  string `toml:"xyz_out" yaml:"xyz_out"`

	styles *species.Table
}

// New returns an instance of the Load structure. It reads and parses the
// configuration file given in argument.
func New(path string) (*Load, error) {
	var load Load
	err := util.Decode(path, &load)
	if err != nil {
		return nil, err
	}

	if load.Format != traj.FormatVASP && load.Format != traj.FormatQE {
		return nil, fmt.Errorf("format `%s` doesn't exist", load.Format)
	}

	if load.FileOut == "" {
		return nil, errors.New("FileOut is empty")
	}

	load.styles = species.Default
	return &load, nil
}

// Start performs the calculation. It is a thread blocking method. This
// calculation only use one thread. An invalid trajectory is summarized before
// the error is returned.
func (l *Load) Start() error {
	d, err := traj.Load(l.Format, l.Dir, l.styles)
	if err != nil && d == nil {
		return fmt.Errorf("Load: %w", err)
	}

	out, werr := util.Write(l.FileOut, l)
	if werr != nil {
		return fmt.Errorf("Write: %w", werr)
	}
	defer out.Close()
	summary(out, d)

	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}

	if l.XYZOut == "" {
		return nil
	}

	f, err := os.Create(l.XYZOut)
	if err != nil {
		return err
	}
	defer f.Close()

	err = d.WriteXYZ(f, d.Cartesian)
	if err != nil {
		return fmt.Errorf("WriteXYZ: %w", err)
	}

	return nil
}

// summary writes the description of the dataset.
func summary(w io.Writer, d *traj.Dataset) {
	fmt.Fprintf(w, "valid %t\n", d.Valid)
	if !d.Valid {
		fmt.Fprintf(w, "message %s\n", d.Message)
		return
	}

	fmt.Fprintf(w, "atoms %d\n", len(d.Atoms))
	fmt.Fprintf(w, "steps %d\n", d.Steps)
	if len(d.Times) > 0 {
		fmt.Fprintf(w, "time %g\n", d.Times[len(d.Times)-1])
	}

	fmt.Fprint(w, "\nspecies atoms r g b radius\n")
	for _, name := range d.Species {
		s := d.Styles[name]
		fmt.Fprintf(w, "%s %d %g %g %g %g\n", name, len(d.BySpecies(name)),
			s.Color[0], s.Color[1], s.Color[2], s.Radius)
	}

	fmt.Fprint(w, "\nbasis\n")
	for _, v := range d.Basis {
		fmt.Fprintf(w, "%g %g %g\n", v[0], v[1], v[2])
	}
	fmt.Fprintf(w, "volume %g\n", d.Basis.Volume())

	fmt.Fprint(w, "\nvertices\n")
	for _, v := range d.Vertices {
		fmt.Fprintf(w, "%g %g %g\n", v[0], v[1], v[2])
	}

	fmt.Fprint(w, "\nstep dt\n")
	for k, start := range d.StepIndex {
		fmt.Fprintf(w, "%d %g\n", start, d.TimeSteps[k])
	}

	fmt.Fprint(w, "\nrun removed\n")
	for k, m := range d.Removed {
		var ids []string
		for i, v := range m {
			if v {
				ids = append(ids, d.IDs[i])
			}
		}
		fmt.Fprintf(w, "%d %d %v\n", k, len(ids), ids)
	}
}
