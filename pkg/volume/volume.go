// Package volume calculates the volume of a molecule in a solvent.
package volume

import (
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"sync"

	"github.com/kpotier/molview/pkg/cell"
	"github.com/kpotier/molview/pkg/species"
	"github.com/kpotier/molview/pkg/traj"
	"github.com/kpotier/molview/pkg/util"
)

// Type is the type of calculation.
var Type = "volume"

// Volume is a structure containing the parameters that can be parsed from
// a configuration file. This structure can be instanced through the New
// method. The cell is divided into Grid[0]*Grid[1]*Grid[2] blocs. A bloc
// located at less than Blocs blocs from an atom of the molecule belongs to
// the molecule if its closest atom, the distance being divided by the sigma
// of the atom, is an atom of the molecule. The species of the molecule are
// listed in Atoms. The sigma of a species defaults to its display radius.
// CfgStart must be lower than CfgEnd. Length of Grid and Blocs must be equal
// to 3.
type Volume struct {
	Format  string `toml:"format" yaml:"format"`
	Dir     string `toml:"dir" yaml:"dir"`
	FileOut string `toml:"file_out" yaml:"file_out"`

	CfgStart   int `toml:"cfg_start" yaml:"cfg_start"`
	CfgEnd     int `toml:"cfg_end" yaml:"cfg_end"`
	CfgSpacing int `toml:"cfg_spacing" yaml:"cfg_spacing"`

	Grid  []int `toml:"grid" yaml:"grid"`
	Blocs []int `toml:"blocs" yaml:"blocs"` // Blocs around each atom

	Atoms []string           `toml:"atoms" yaml:"atoms"`
	Sigma map[string]float64 `toml:"sigma" yaml:"sigma"`

	styles *species.Table

	basis cell.Basis
	vol   float64
	mol   []int
	other []int
	sigma []float64 // per atom

	cfgs    []int
	results [][2]float64

	cfg int
	mux sync.Mutex
	wg  sync.WaitGroup
}

// New returns an instance of the Volume structure. It reads and parses
// the configuration file given in argument.
func New(path string) (*Volume, error) {
	var volume Volume
	err := util.Decode(path, &volume)
	if err != nil {
		return nil, err
	}

	if volume.CfgStart < 0 || volume.CfgSpacing < 0 {
		return nil, errors.New("CfgStart or CfgSpacing is negative")
	}

	if volume.CfgStart >= volume.CfgEnd {
		return nil, errors.New("CfgStart is greater or equal than CfgEnd")
	}

	if len(volume.Grid) != 3 || len(volume.Blocs) != 3 {
		return nil, errors.New("length of Blocs or Grid is not equal to 3")
	}

	for k := 0; k < 3; k++ {
		if volume.Grid[k] <= 0 || volume.Blocs[k] < 0 {
			return nil, errors.New("Grid must be positive and Blocs not negative")
		}
	}

	if len(volume.Atoms) == 0 {
		return nil, errors.New("Atoms is empty")
	}

	for atom, sigma := range volume.Sigma {
		if sigma <= 0 {
			return nil, fmt.Errorf("sigma of %s must be greater than 0", atom)
		}
	}

	volume.styles = species.Default
	return &volume, nil
}

// Start performs the calculation. It is a thread blocking method. This
// calculation will use all the threads available.
func (v *Volume) Start() error {
	d, err := traj.Load(v.Format, v.Dir, v.styles)
	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}

	err = v.lookup(d)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	v.cfg = -1
	for i := 0; i < runtime.NumCPU(); i++ {
		v.wg.Add(1)
		go v.start(d.Fractional)
	}
	v.wg.Wait()

	out, err := util.Write(v.FileOut, v)
	if err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	defer out.Close()
	v.write(out, d.Times)

	return nil
}

// lookup sorts the atoms between the molecule and the solvent and sets their
// sigma. It also lists the configurations to calculate.
func (v *Volume) lookup(d *traj.Dataset) error {
	if v.CfgEnd > d.Steps {
		return fmt.Errorf("CfgEnd is greater than the number of configurations (%d > %d)", v.CfgEnd, d.Steps)
	}

	v.basis = d.Basis
	v.vol = d.Basis.Volume()

	inMol := make(map[string]bool, len(v.Atoms))
	for _, atom := range v.Atoms {
		if len(d.BySpecies(atom)) == 0 {
			return fmt.Errorf("atom type `%s` doesn't exist", atom)
		}
		inMol[atom] = true
	}

	v.mol, v.other = nil, nil
	v.sigma = make([]float64, len(d.Atoms))
	for i, at := range d.Atoms {
		if inMol[at.Species] {
			v.mol = append(v.mol, i)
		} else {
			v.other = append(v.other, i)
		}

		sigma, ok := v.Sigma[at.Species]
		if !ok {
			sigma = d.Styles[at.Species].Radius
		}
		v.sigma[i] = sigma
	}

	v.cfgs = nil
	for cfg := v.CfgStart; cfg < v.CfgEnd; cfg += v.CfgSpacing + 1 {
		v.cfgs = append(v.cfgs, cfg)
	}
	v.results = make([][2]float64, len(v.cfgs))

	return nil
}

func (v *Volume) start(frames [][][3]float64) {
	defer v.wg.Done()
	for {
		v.mux.Lock()
		v.cfg++
		k := v.cfg
		v.mux.Unlock()

		if k >= len(v.cfgs) {
			return
		}
		v.results[k] = v.calc(frames[v.cfgs[k]])
	}
}

// calc calculates the volume of the molecule and the volume of the solvent
// in one configuration given in fractional coordinates.
func (v *Volume) calc(frac [][3]float64) [2]float64 {
	var grid [3]int
	copy(grid[:], v.Grid)

	blocs := make(map[[3]int]struct{})
	for _, i := range v.mol {
		if cell.IsAbsent(frac[i]) {
			continue
		}

		var bloc [3]int // In which bloc is the atom
		for k := 0; k < 3; k++ {
			bloc[k] = int(math.Floor((frac[i][k] + 0.5) * float64(grid[k])))
		}

		for x := bloc[0] - v.Blocs[0]; x <= bloc[0]+v.Blocs[0]; x++ {
			for y := bloc[1] - v.Blocs[1]; y <= bloc[1]+v.Blocs[1]; y++ {
				for z := bloc[2] - v.Blocs[2]; z <= bloc[2]+v.Blocs[2]; z++ {
					blocs[[3]int{wrap(x, grid[0]), wrap(y, grid[1]), wrap(z, grid[2])}] = struct{}{}
				}
			}
		}
	}

	var n int
	for bloc := range blocs {
		var pos [3]float64
		for k := 0; k < 3; k++ {
			pos[k] = (float64(bloc[k])+0.5)/float64(grid[k]) - 0.5
		}

		distTmp := math.MaxFloat64
		for _, i := range v.mol {
			if cell.IsAbsent(frac[i]) {
				continue
			}
			if dist := v.dist(frac[i], pos) / v.sigma[i]; dist < distTmp {
				distTmp = dist
			}
		}

		ptsTmp := true
		for _, i := range v.other {
			if cell.IsAbsent(frac[i]) {
				continue
			}
			if v.dist(frac[i], pos)/v.sigma[i] < distTmp {
				ptsTmp = false
				break // The bloc belongs to the solvent.
			}
		}

		if ptsTmp {
			n++
		}
	}

	volAt := v.vol * float64(n) / float64(grid[0]*grid[1]*grid[2])
	return [2]float64{volAt, v.vol - volAt}
}

// dist returns the distance (Å) between two positions given in fractional
// coordinates, using the closest periodic image.
func (v *Volume) dist(a, b [3]float64) float64 {
	var df [3]float64
	for k := 0; k < 3; k++ {
		df[k] = a[k] - b[k]
		df[k] -= math.Round(df[k])
	}

	var dist float64
	for k := 0; k < 3; k++ {
		var c float64
		for j := 0; j < 3; j++ {
			c += df[j] * v.basis[j][k]
		}
		dist += c * c
	}
	return math.Sqrt(dist)
}

// write writes the results of this calculation into a file.
func (v *Volume) write(w io.Writer, times []float64) {
	fmt.Fprint(w, "cfg t vol(atoms) vol(other)\n")
	for k, cfg := range v.cfgs {
		fmt.Fprintf(w, "%d %g %g %g\n", cfg, times[cfg], v.results[k][0], v.results[k][1])
	}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
