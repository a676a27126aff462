package qe

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/kpotier/molview/pkg/util"
)

var (
	reNat  = regexp.MustCompile(`(?i)\bnat\s*=\s*(\d+)`)
	reNtyp = regexp.MustCompile(`(?i)\bntyp\s*=\s*(\d+)`)
)

// scanFile calls fn for every line of the file located at path. Errors
// returned by fn are wrapped with ErrFormat and the line number.
func scanFile(path string, fn func(sc *bufio.Scanner, line *int) error) error {
	rc, err := util.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	var line int
	err = fn(sc, &line)
	if serr := sc.Err(); serr != nil {
		return serr
	}
	if err != nil {
		return fmt.Errorf("%w: %s (line %d): %v", ErrFormat, filepath.Base(path), line, err)
	}
	return nil
}

func nextLine(sc *bufio.Scanner, line *int) bool {
	ok := sc.Scan()
	if ok {
		*line++
	}
	return ok
}

// nextFields returns the fields of the next non-empty line.
func nextFields(sc *bufio.Scanner, line *int) ([]string, bool) {
	for nextLine(sc, line) {
		fields := strings.Fields(sc.Text())
		if len(fields) > 0 {
			return fields, true
		}
	}
	return nil, false
}

// readInput reads the number of atoms and of species, the mass of each species
// (ATOMIC_SPECIES) and the species of each atom (ATOMIC_POSITIONS).
func (r *Run) readInput() error {
	return scanFile(r.Files.In, func(sc *bufio.Scanner, line *int) error {
		var order []string
		for nextLine(sc, line) {
			l := sc.Text()
			if m := reNat.FindStringSubmatch(l); m != nil && r.Atoms == 0 {
				r.Atoms, _ = strconv.Atoi(m[1])
			}
			if m := reNtyp.FindStringSubmatch(l); m != nil && r.Types == 0 {
				r.Types, _ = strconv.Atoi(m[1])
			}

			card := strings.ToUpper(strings.TrimSpace(l))
			switch {
			case strings.HasPrefix(card, "ATOMIC_SPECIES"):
				if r.Types == 0 {
					return fmt.Errorf("ATOMIC_SPECIES before ntyp")
				}
				r.Mass = make(map[string]float64, r.Types)
				for i := 0; i < r.Types; i++ {
					fields, ok := nextFields(sc, line)
					if !ok || len(fields) < 2 {
						return fmt.Errorf("ATOMIC_SPECIES: species %d is missing", i+1)
					}
					mass, err := strconv.ParseFloat(fields[1], 64)
					if err != nil {
						return fmt.Errorf("ATOMIC_SPECIES: %w", err)
					}
					r.Mass[fields[0]] = mass
					order = append(order, fields[0])
				}

			case strings.HasPrefix(card, "ATOMIC_POSITIONS"):
				if r.Atoms == 0 || r.Mass == nil {
					return fmt.Errorf("ATOMIC_POSITIONS before nat or ATOMIC_SPECIES")
				}
				for i := 0; i < r.Atoms; i++ {
					fields, ok := nextFields(sc, line)
					if !ok {
						return fmt.Errorf("ATOMIC_POSITIONS: atom %d is missing", i+1)
					}
					mass, ok := r.Mass[fields[0]]
					if !ok {
						return fmt.Errorf("ATOMIC_POSITIONS: species %s isn't in ATOMIC_SPECIES", fields[0])
					}

					r.Species = append(r.Species, fields[0])
					r.Masses = append(r.Masses, mass)
					for k, v := range order {
						if v == fields[0] {
							r.TypeIDs = append(r.TypeIDs, k+1)
							break
						}
					}
				}
			}
		}

		switch {
		case r.Atoms == 0:
			return fmt.Errorf("nat not found")
		case len(r.Species) != r.Atoms:
			return fmt.Errorf("ATOMIC_POSITIONS not found")
		}
		return nil
	})
}

// readCel reads the first cell of the cell file. The first line is a header.
func (r *Run) readCel() error {
	return scanFile(r.Files.Cel, func(sc *bufio.Scanner, line *int) error {
		if !nextLine(sc, line) {
			return io.ErrUnexpectedEOF
		}

		for i := 0; i < 3; i++ {
			fields, ok := nextFields(sc, line)
			if !ok {
				return io.ErrUnexpectedEOF
			}
			if len(fields) != 3 {
				return fmt.Errorf("expected 3 columns, got %d", len(fields))
			}
			for k, v := range fields {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return err
				}
				r.Basis[i][k] = f
			}
		}
		r.Basis = r.Basis.Scale(1 / BohrPerAngstrom)
		return nil
	})
}

// readPos reads the positions file. Each configuration starts with a header
// "step time" followed by one line per atom. A change of the time elapsed
// between two headers starts a new time step.
func (r *Run) readPos() error {
	return scanFile(r.Files.Pos, func(sc *bufio.Scanner, line *int) error {
		var (
			times []float64
			quant float64
			frame [][3]float64
		)

		flush := func() error {
			if frame == nil {
				return nil
			}
			if len(frame) != r.Atoms {
				return fmt.Errorf("step %d: %d atoms (expected %d)", r.Steps[len(r.Steps)-1], len(frame), r.Atoms)
			}
			r.Frames = append(r.Frames, frame)
			frame = nil
			return nil
		}

		for nextLine(sc, line) {
			fields := strings.Fields(sc.Text())
			switch len(fields) {
			case 0:
				continue

			case 2:
				err := flush()
				if err != nil {
					return err
				}

				step, err := strconv.Atoi(fields[0])
				if err != nil {
					return err
				}
				t, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return err
				}
				r.Steps = append(r.Steps, step)
				times = append(times, t)
				quant = math.Max(quant, quantum(fields[1]))
				frame = make([][3]float64, 0, r.Atoms)

			default:
				if frame == nil {
					return fmt.Errorf("position before the first header")
				}
				if len(fields) < 3 {
					return fmt.Errorf("expected 3 columns, got %d", len(fields))
				}
				var xyz [3]float64
				for k := 0; k < 3; k++ {
					f, err := strconv.ParseFloat(fields[k], 64)
					if err != nil {
						return err
					}
					xyz[k] = f / BohrPerAngstrom
				}
				frame = append(frame, xyz)
			}
		}

		err := flush()
		if err != nil {
			return err
		}
		if len(r.Frames) == 0 {
			return fmt.Errorf("no configuration")
		}

		r.TimeSteps, r.StepIndex = timeSteps(times, quant)
		return nil
	})
}

// timeSteps returns the time steps (fs) and the first frame reached with each
// of them. The first time step starts at frame 0. A single configuration has a
// time step of 0. Two deltas belong to the same time step when they differ by
// less than the rounding of the printed times (twice quant, the last printed
// digit) or by a relative 1e-6.
func timeSteps(times []float64, quant float64) (dt []float64, start []int) {
	if len(times) < 2 {
		return []float64{0}, []int{0}
	}

	var cur float64
	for k := 1; k < len(times); k++ {
		d := times[k] - times[k-1]
		tol := math.Max(1e-6*math.Max(math.Abs(cur), 1), 2*quant)
		if k == 1 || math.Abs(d-cur) > tol {
			cur = d
			dt = append(dt, d/AUPerFs)
			if k == 1 {
				start = append(start, 0)
			} else {
				start = append(start, k)
			}
		}
	}
	return
}

// quantum returns the value of the last digit of a fixed-point number, 0 for
// an exponent notation.
func quantum(tok string) float64 {
	if strings.ContainsAny(tok, "eEdD") {
		return 0
	}
	i := strings.IndexByte(tok, '.')
	if i < 0 {
		return 1
	}
	return math.Pow(10, -float64(len(tok)-i-1))
}
