// Package vasp reads the XML output files written by VASP during a molecular
// dynamics run. A directory holds one file per run segment; the files are read
// in lexical order.
package vasp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpotier/molview/pkg/cell"
	"github.com/kpotier/molview/pkg/util"
)

// Ext is the extension of the files read by ParseDir. Compressed files
// (.xml.gz, .xml.zst) are also accepted.
const Ext = ".xml"

// ErrFormat is wrapped by every error caused by a malformed file.
var ErrFormat = errors.New("malformed vasp output")

// File contains what has been read from one output file. Frames are in direct
// (fractional, uncentered) coordinates.
type File struct {
	Name string

	Atoms   int
	Species []string // verbatim, padding spaces included
	Types   []int

	Potim  float64 // fs
	Masses []float64

	Frames   [][][3]float64
	Basis    cell.Basis
	Vertices [8][3]float64
}

// Run is the result of ParseDir. If Corrupted is true, Message explains why
// and nothing else must be trusted.
type Run struct {
	Dir   string
	Files []File

	Steps       int
	FrameCounts []int

	Corrupted bool
	Message   string
}

// Match reports whether the file name is a VASP output file.
func Match(name string) bool {
	return strings.HasSuffix(util.TrimCompressed(name), Ext)
}

// List returns the paths of the VASP output files of dir in lexical order.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !Match(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// ParseDir reads every VASP output file of dir. A directory without output
// files, or with a malformed file, gives a corrupted Run. Only unexpected I/O
// errors are returned.
func ParseDir(dir string) (*Run, error) {
	run := &Run{Dir: dir}

	paths, err := List(dir)
	if err != nil {
		run.corrupt("cannot list %s: %v", dir, err)
		return run, nil
	}

	if len(paths) == 0 {
		run.corrupt("no %s file in %s", Ext, dir)
		return run, nil
	}

	for _, path := range paths {
		f, err := ParseFile(path)
		if err != nil {
			if errors.Is(err, ErrFormat) {
				run.corrupt("%s: %v", filepath.Base(path), err)
				return run, nil
			}
			return nil, fmt.Errorf("ParseFile: %w", err)
		}

		if len(f.Frames) == 0 {
			run.corrupt("%s: no configuration after the initial one", f.Name)
			return run, nil
		}

		run.Files = append(run.Files, f)
		run.FrameCounts = append(run.FrameCounts, len(f.Frames))
		run.Steps += len(f.Frames)
	}

	return run, nil
}

func (r *Run) corrupt(format string, a ...interface{}) {
	r.Corrupted = true
	r.Message = fmt.Sprintf(format, a...)
	r.Files = nil
	r.FrameCounts = nil
	r.Steps = 0
}

// ParseFile reads one VASP output file.
func ParseFile(path string) (File, error) {
	rc, err := util.Open(path)
	if err != nil {
		return File{}, err
	}
	defer rc.Close()

	f, err := parse(rc)
	if err != nil {
		return File{}, err
	}

	f.Name = filepath.Base(path)
	return f, nil
}
