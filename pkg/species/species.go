// Package species assigns a display style (color and radius) to each chemical
// species of a trajectory.
package species

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Style is the display style of a species. Color components are in [0, 1],
// the radius is in Å.
type Style struct {
	Color  [3]float64 `toml:"color" yaml:"color"`
	Radius float64    `toml:"radius" yaml:"radius"`
}

// Bounds of the radius drawn for a species missing from Known.
const (
	RadiusMin = 0.24
	RadiusMax = 0.42
)

// Known holds the fixed styles of the common species.
var Known = map[string]Style{
	"H":  {[3]float64{1, 1, 1}, 0.25},
	"He": {[3]float64{0.85, 1, 1}, 0.28},
	"Li": {[3]float64{0.8, 0.5, 1}, 0.42},
	"C":  {[3]float64{0.56, 0.56, 0.56}, 0.35},
	"N":  {[3]float64{0.19, 0.31, 0.97}, 0.33},
	"O":  {[3]float64{1, 0.05, 0.05}, 0.32},
	"F":  {[3]float64{0.56, 0.88, 0.31}, 0.3},
	"Na": {[3]float64{0.67, 0.36, 0.95}, 0.42},
	"Mg": {[3]float64{0.54, 1, 0}, 0.4},
	"Si": {[3]float64{0.94, 0.78, 0.63}, 0.38},
	"P":  {[3]float64{1, 0.5, 0}, 0.37},
	"S":  {[3]float64{1, 1, 0.19}, 0.37},
	"Cl": {[3]float64{0.12, 0.94, 0.12}, 0.36},
	"Fe": {[3]float64{0.88, 0.4, 0.2}, 0.4},
}

// Table memoizes the style of every species it has seen. A species missing
// from Known gets a random style drawn once and reused afterwards. A Table is
// safe for concurrent use: the first caller for a species decides its style.
type Table struct {
	mux    sync.Mutex
	rng    *rand.Rand
	styles map[string]Style
}

// Default is the table shared by the calculations of one process.
var Default = NewTable(nil)

// NewTable returns an empty table drawing from src. A nil src uses a randomly
// seeded source.
func NewTable(src rand.Source) *Table {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Table{rng: rand.New(src), styles: make(map[string]Style)}
}

// Style returns the style of the species. Surrounding whitespace of the name
// is ignored.
func (t *Table) Style(name string) Style {
	name = strings.TrimSpace(name)

	t.mux.Lock()
	defer t.mux.Unlock()

	if s, ok := t.styles[name]; ok {
		return s
	}

	s, ok := Known[name]
	if !ok {
		s.Radius = RadiusMin + t.rng.Float64()*(RadiusMax-RadiusMin)
		for k := range s.Color {
			s.Color[k] = t.rng.Float64()
		}
	}

	t.styles[name] = s
	return s
}

// Styles returns the styles of several species at once.
func (t *Table) Styles(names []string) map[string]Style {
	res := make(map[string]Style, len(names))
	for _, v := range names {
		res[strings.TrimSpace(v)] = t.Style(v)
	}
	return res
}
