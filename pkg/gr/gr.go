// Package gr calculates the radial distribution function and its integral.
package gr

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/kpotier/molview/pkg/bonds"
	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/traj"
	"github.com/kpotier/molview/pkg/util"
)

// Type is the type of calculation.
var Type = "gr"

// GR is a structure containing the parameters that can be parsed from a
// configuration file. This structure can be instanced through the New method.
// Atoms maps a species to the species whose distribution around it is
// calculated. Distances are not wrapped by the periodic boundary conditions.
// CfgStart must be lower than CfgEnd.
type GR struct {
	Format  string `toml:"format" yaml:"format"`
	Dir     string `toml:"dir" yaml:"dir"`
	FileOut string `toml:"file_out" yaml:"file_out"`

	CfgStart int `toml:"cfg_start" yaml:"cfg_start"`
	CfgEnd   int `toml:"cfg_end" yaml:"cfg_end"`

	Atoms map[string][]string `toml:"atoms" yaml:"atoms"`

	RMax float64 `toml:"rmax" yaml:"rmax"`
	Dr   float64 `toml:"dr" yaml:"dr"`

	bins  int
	order [][2]string

	styles *species.Table
	hstg   map[[2]string][]float64
	count  map[[2]string][2]float64 // number of atoms of each species, summed over the configurations
	vol    float64
}

// New returns an instance of the GR structure. It reads and parses the
// configuration file given in argument.
func New(path string) (*GR, error) {
	var gr GR
	err := util.Decode(path, &gr)
	if err != nil {
		return nil, err
	}

	if gr.CfgStart < 0 {
		return nil, errors.New("CfgStart is negative")
	}

	if gr.CfgStart >= gr.CfgEnd {
		return nil, errors.New("CfgStart is greater or equal than CfgEnd")
	}

	if gr.Dr <= 0 {
		return nil, errors.New("Dr must be greater than 0")
	}

	gr.bins = int(gr.RMax / gr.Dr)
	if gr.bins <= 1 {
		return nil, errors.New("the number of bins must be greater than 1")
	}

	for at1, arrAt2 := range gr.Atoms {
		for _, at2 := range arrAt2 {
			gr.order = append(gr.order, [2]string{at1, at2})
		}
	}

	if len(gr.order) == 0 {
		return nil, errors.New("at least one pair of atoms is needed")
	}

	sort.Slice(gr.order, func(i, j int) bool {
		if gr.order[i][0] != gr.order[j][0] {
			return gr.order[i][0] < gr.order[j][0]
		}
		return gr.order[i][1] < gr.order[j][1]
	})

	gr.hstg = make(map[[2]string][]float64, len(gr.order))
	gr.count = make(map[[2]string][2]float64, len(gr.order))
	gr.styles = species.Default
	return &gr, nil
}

// Start performs the calculation. It is a thread blocking method. This
// calculation will use all the threads available.
func (g *GR) Start() error {
	data, err := traj.Load(g.Format, g.Dir, g.styles)
	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}

	if g.CfgEnd > data.Steps {
		return fmt.Errorf("CfgEnd is greater than the number of configurations (%d > %d)", g.CfgEnd, data.Steps)
	}

	frames := data.Cartesian[g.CfgStart:g.CfgEnd]
	axis := bonds.ChooseAxis(frames, 0)
	g.vol = data.Basis.Volume()

	for _, key := range g.order {
		at1, at2, err := g.fetchAtoms(data, key)
		if err != nil {
			return fmt.Errorf("fetchAtoms: %w", err)
		}

		g.hstg[key] = make([]float64, g.bins)
		for f, m := range bonds.DetectAll(frames, axis, g.RMax, at1, at2) {
			g.calc(key, frames[f], m, at1, at2)
		}
	}

	out, err := util.Write(g.FileOut, g)
	if err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	defer out.Close()
	g.write(out)

	return nil
}

// calc increments the histogram of the pair with the neighbors of one
// configuration.
func (g *GR) calc(key [2]string, frame [][3]float64, m bonds.NeighborMap, at1, at2 []int) {
	n1, n2 := present(frame, at1), present(frame, at2)
	if at2 == nil {
		n2 = n1 - 1
	}

	count := g.count[key]
	count[0] += n1
	count[1] += n2
	g.count[key] = count

	hstg := g.hstg[key]
	for _, i := range at1 {
		for _, j := range m[i] {
			var dist float64
			for k := 0; k < 3; k++ {
				dist += util.Pow(frame[i][k]-frame[j][k], 2)
			}

			index := int(math.Sqrt(dist) / g.Dr)
			if index < g.bins {
				hstg[index]++
			}
		}
	}
}

// write writes the results of this calculation into a file.
func (g *GR) write(w io.Writer) {
	// Volume for each bin
	var vol []float64
	for i := 0; i < g.bins; i++ {
		vol = append(vol, (4. / 3. * math.Pi *
			(util.Pow((float64(i+1)*g.Dr), 3) - util.Pow((float64(i)*g.Dr), 3))))
	}

	// g(r) and its integral
	gr := make(map[[2]string][]float64, len(g.order))
	intg := make(map[[2]string][]float64, len(g.order))
	for _, key := range g.order {
		gr[key] = make([]float64, g.bins)
		intg[key] = make([]float64, g.bins)

		count := g.count[key]
		if count[0] == 0 || count[1] == 0 {
			continue
		}

		// count[1]/count[0] is the average number of atoms of the second
		// species per atom of the first species.
		density := count[1] / count[0] / g.vol
		for bin, v := range g.hstg[key] {
			intg[key][bin] = v / count[0]
			gr[key][bin] = intg[key][bin] / (vol[bin] * density)
			if bin > 0 {
				intg[key][bin] += intg[key][bin-1]
			}
		}
	}

	// Header
	fmt.Fprint(w, "dist ")
	for _, key := range g.order {
		fmt.Fprint(w, key[0], "-", key[1], "-intg ")
		fmt.Fprint(w, key[0], "-", key[1], "-hstg ")
	}
	fmt.Fprint(w, "\n")

	// Results for each bin
	for i := 0; i < g.bins; i++ {
		fmt.Fprint(w, ((float64(i+1) - 0.5) * g.Dr), " ")
		for _, key := range g.order {
			fmt.Fprint(w, intg[key][i], " ", gr[key][i], " ")
		}
		fmt.Fprint(w, "\n")
	}
}
