package qe

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kpotier/molview/pkg/util"
)

// Extensions of the three companion files written by cp.x.
const (
	ExtPos = ".pos"
	ExtVel = ".vel"
	ExtCel = ".cel"
	ExtIn  = ".in"
)

// Files are the paths of the files making a run.
type Files struct {
	Pos string
	Vel string
	Cel string
	In  string
}

// walk visits the directories of the tree rooted at root breadth first, in
// lexical order inside each directory, until visit returns true. An explicit
// queue replaces recursion.
func walk(root string, visit func(dir string, files []os.DirEntry) bool) error {
	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}

		var files []os.DirEntry
		for _, e := range entries {
			if e.IsDir() {
				queue = append(queue, filepath.Join(dir, e.Name()))
				continue
			}
			files = append(files, e)
		}

		if visit(dir, files) {
			return nil
		}
	}
	return nil
}

// FindTriad returns the first directory (breadth first) holding a .pos, a .vel
// and a .cel file sharing the same base name. Subdirectories of that directory
// aren't visited.
func FindTriad(root string) (Files, bool, error) {
	var (
		res   Files
		found bool
	)

	err := walk(root, func(dir string, files []os.DirEntry) bool {
		bases := make(map[string]map[string]string)
		for _, e := range files {
			name := util.TrimCompressed(e.Name())
			ext := filepath.Ext(name)
			if ext != ExtPos && ext != ExtVel && ext != ExtCel {
				continue
			}

			base := strings.TrimSuffix(name, ext)
			if bases[base] == nil {
				bases[base] = make(map[string]string, 3)
			}
			if _, ok := bases[base][ext]; !ok {
				bases[base][ext] = filepath.Join(dir, e.Name())
			}
		}

		names := make([]string, 0, len(bases))
		for k := range bases {
			names = append(names, k)
		}
		sort.Strings(names)

		for _, base := range names {
			exts := bases[base]
			if len(exts) == 3 {
				res = Files{Pos: exts[ExtPos], Vel: exts[ExtVel], Cel: exts[ExtCel]}
				found = true
				return true
			}
		}
		return false
	})

	return res, found, err
}

// FindInput returns the first .in file of the tree (breadth first).
func FindInput(root string) (string, bool, error) {
	var res string
	err := walk(root, func(dir string, files []os.DirEntry) bool {
		for _, e := range files {
			if filepath.Ext(util.TrimCompressed(e.Name())) == ExtIn {
				res = filepath.Join(dir, e.Name())
				return true
			}
		}
		return false
	})

	return res, res != "", err
}
