package vasp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kpotier/molview/pkg/cell"
	"github.com/kpotier/molview/pkg/util"
)

// parser keeps the state of the reading of one file.
type parser struct {
	sc   *bufio.Scanner
	line int

	f         File
	potim     bool
	positions int
	basis     bool
}

func parse(r io.Reader) (File, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	p := parser{sc: sc}

	for p.next() {
		l := sc.Text()

		var err error
		switch {
		case p.f.Atoms == 0 && strings.Contains(l, "<atoms>"):
			err = p.readAtomCount(l)
		case p.f.Species == nil && strings.Contains(l, `<array name="atoms"`):
			err = p.readAtomTypes()
		case !p.potim && util.Named(l, "POTIM"):
			err = p.readPotim(l)
		case p.f.Masses == nil && util.Named(l, "POMASS"):
			p.f.Masses, err = util.Floats(l)
		case strings.Contains(l, `<varray name="positions"`):
			err = p.readPositions()
		case !p.basis && strings.Contains(l, `<varray name="basis"`):
			err = p.readBasis()
		}

		if err != nil {
			if serr := sc.Err(); serr != nil {
				return File{}, serr
			}
			return File{}, p.errorf("%v", err)
		}
	}

	if err := sc.Err(); err != nil {
		return File{}, err
	}

	switch {
	case p.f.Atoms == 0:
		return File{}, fmt.Errorf("%w: number of atoms not found", ErrFormat)
	case len(p.f.Species) != p.f.Atoms:
		return File{}, fmt.Errorf("%w: atom types not found", ErrFormat)
	case !p.basis:
		return File{}, fmt.Errorf("%w: basis not found", ErrFormat)
	}

	return p.f, nil
}

func (p *parser) next() bool {
	ok := p.sc.Scan()
	if ok {
		p.line++
	}
	return ok
}

func (p *parser) errorf(format string, a ...interface{}) error {
	return fmt.Errorf("%w (line %d): %s", ErrFormat, p.line, fmt.Sprintf(format, a...))
}

func (p *parser) readAtomCount(l string) error {
	v, ok := util.Tag(l, "atoms")
	if !ok {
		return fmt.Errorf("unterminated atoms tag")
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("number of atoms must be positive (got %d)", n)
	}

	p.f.Atoms = n
	return nil
}

// readAtomTypes reads the rows (species, type) of the atoms array.
func (p *parser) readAtomTypes() error {
	if p.f.Atoms == 0 {
		return fmt.Errorf("atom types before the number of atoms")
	}

	for {
		if !p.next() {
			return fmt.Errorf("unexpected end of file in the atoms array")
		}
		if strings.Contains(p.sc.Text(), "<set>") {
			break
		}
	}

	species := make([]string, 0, p.f.Atoms)
	types := make([]int, 0, p.f.Atoms)
	for i := 0; i < p.f.Atoms; i++ {
		if !p.next() {
			return fmt.Errorf("unexpected end of file in the atoms array")
		}

		cells := util.Cells(p.sc.Text())
		if len(cells) < 2 {
			return fmt.Errorf("atom %d: expected 2 fields, got %d", i, len(cells))
		}

		typ, err := strconv.Atoi(strings.TrimSpace(cells[1]))
		if err != nil {
			return fmt.Errorf("atom %d: %w", i, err)
		}

		species = append(species, cells[0])
		types = append(types, typ)
	}

	p.f.Species = species
	p.f.Types = types
	return nil
}

func (p *parser) readPotim(l string) error {
	v, err := util.Floats(l)
	if err != nil {
		return err
	}
	if len(v) != 1 {
		return fmt.Errorf("POTIM: expected 1 value, got %d", len(v))
	}

	p.f.Potim = v[0]
	p.potim = true
	return nil
}

// readPositions reads a positions block. The first block of a file is the
// initial structure, repeated by the first step: it is read but discarded. A
// block equal to the last stored frame isn't stored.
func (p *parser) readPositions() error {
	if p.f.Atoms == 0 {
		return fmt.Errorf("positions before the number of atoms")
	}

	frame, err := p.readVecs(p.f.Atoms)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	p.positions++
	if p.positions == 1 {
		return nil
	}

	if n := len(p.f.Frames); n > 0 && equal(p.f.Frames[n-1], frame) {
		return nil
	}

	p.f.Frames = append(p.f.Frames, frame)
	return nil
}

func (p *parser) readBasis() error {
	vecs, err := p.readVecs(3)
	if err != nil {
		return fmt.Errorf("basis: %w", err)
	}

	copy(p.f.Basis[:], vecs)
	p.f.Vertices = cell.Vertices(p.f.Basis)
	p.basis = true
	return nil
}

// readVecs reads n lines like <v> x y z </v>.
func (p *parser) readVecs(n int) ([][3]float64, error) {
	vecs := make([][3]float64, n)
	for i := 0; i < n; i++ {
		if !p.next() {
			return nil, fmt.Errorf("unexpected end of file (%d of %d vectors)", i, n)
		}

		var err error
		vecs[i], err = util.Vec(p.sc.Text())
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
	}
	return vecs, nil
}

// equal reports whether two frames are identical.
func equal(a, b [][3]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
