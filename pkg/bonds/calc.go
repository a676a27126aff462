package bonds

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/traj"
	"github.com/kpotier/molview/pkg/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Type is the name of the calculation.
var Type = "bonds"

// Bonds counts, for each frame, the bonds between the species of each pair.
// A pair made of the same species twice counts the bonds inside this species.
// Cutoff must be positive.
type Bonds struct {
	Format  string `toml:"format" yaml:"format"`
	Dir     string `toml:"dir" yaml:"dir"`
	FileOut string `toml:"file_out" yaml:"file_out"`
	PlotOut string `toml:"plot_out" yaml:"plot_out"`

	Cutoff  float64    `toml:"cutoff" yaml:"cutoff"`
	Pairs   [][]string `toml:"pairs" yaml:"pairs"`
	Samples int        `toml:"samples" yaml:"samples"`

	styles *species.Table
	axis   int
	counts [][]int // pair -> frame
}

// New returns an instance of the Bonds structure. It reads and parses the
// configuration file given in argument (TOML, or YAML for .yaml and .yml).
func New(path string) (*Bonds, error) {
	var b Bonds
	err := util.Decode(path, &b)
	if err != nil {
		return nil, err
	}

	if b.Cutoff <= 0 {
		return nil, errors.New("Cutoff must be greater than 0")
	}

	if len(b.Pairs) == 0 {
		return nil, errors.New("at least one pair is needed")
	}

	for k, v := range b.Pairs {
		if len(v) != 2 {
			return nil, fmt.Errorf("pair %d must contain two species (got %d)", k, len(v))
		}
	}

	b.styles = species.Default
	return &b, nil
}

// Start performs the calculation. It is a thread blocking method. Frames are
// shared between all the threads available.
func (b *Bonds) Start() error {
	d, err := traj.Load(b.Format, b.Dir, b.styles)
	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}

	b.axis = ChooseAxis(d.Cartesian, b.Samples)
	b.counts = make([][]int, len(b.Pairs))
	for k, pair := range b.Pairs {
		at1, at2 := d.BySpecies(pair[0]), d.BySpecies(pair[1])
		if len(at1) == 0 || len(at2) == 0 {
			return fmt.Errorf("species %s or %s doesn't exist", pair[0], pair[1])
		}
		if pair[0] == pair[1] {
			at2 = nil
		}

		b.counts[k] = make([]int, d.Steps)
		for f, m := range DetectAll(d.Cartesian, b.axis, b.Cutoff, at1, at2) {
			b.counts[k][f] = m.Pairs()
		}
	}

	out, err := util.Write(b.FileOut, b)
	if err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	defer out.Close()
	b.write(out, d.Times)

	if b.PlotOut != "" {
		err = b.plot(d.Times)
		if err != nil {
			return fmt.Errorf("plot: %w", err)
		}
	}

	return nil
}

// write writes the bond counts and a graph of each pair.
func (b *Bonds) write(w io.Writer, times []float64) {
	names := make([]string, len(b.Pairs))
	for k, pair := range b.Pairs {
		names[k] = pair[0] + "-" + pair[1]
	}

	fmt.Fprintf(w, "axis = %d\n\n", b.axis)
	fmt.Fprintf(w, "cfg t %s\n", strings.Join(names, " "))
	for f, t := range times {
		fmt.Fprintf(w, "%d %g", f, t)
		for k := range b.Pairs {
			fmt.Fprintf(w, " %d", b.counts[k][f])
		}
		fmt.Fprint(w, "\n")
	}

	if len(times) < 2 {
		return
	}
	for k, name := range names {
		data := make([]float64, len(times))
		for f, v := range b.counts[k] {
			data[f] = float64(v)
		}
		fmt.Fprintf(w, "\n%s\n", asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" bonds")))
	}
}

// plot saves the number of bonds as a function of time into a PNG file.
func (b *Bonds) plot(times []float64) error {
	p := plot.New()
	p.Title.Text = "Bonds"
	p.X.Label.Text = "t (fs)"
	p.Y.Label.Text = "bonds"
	p.Add(plotter.NewGrid())

	for k, pair := range b.Pairs {
		xys := make(plotter.XYs, len(times))
		for f, t := range times {
			xys[f].X = t
			xys[f].Y = float64(b.counts[k][f])
		}

		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.Color = plotutil.Color(k)
		p.Add(l)
		p.Legend.Add(pair[0]+"-"+pair[1], l)
	}

	return p.Save(6*vg.Inch, 4*vg.Inch, b.PlotOut)
}
