package util

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag returns the text enclosed by <tag> and </tag> on the line, e.g. the
// number of atoms for `<atoms>  4 </atoms>`. The text isn't trimmed.
func Tag(line, tag string) (string, bool) {
	open := "<" + tag + ">"
	start := strings.Index(line, open)
	if start < 0 {
		return "", false
	}
	start += len(open)

	end := strings.Index(line[start:], "</"+tag+">")
	if end < 0 {
		return "", false
	}

	return line[start : start+end], true
}

// Named reports whether the line holds an element with the attribute
// name="name".
func Named(line, name string) bool {
	return strings.Contains(line, `name="`+name+`"`)
}

// Content returns the text between the first '>' and the last '<' of the line.
// It is the value of a single element like `<v name="x"> 1 2 3 </v>`.
func Content(line string) (string, error) {
	start := strings.IndexByte(line, '>')
	end := strings.LastIndexByte(line, '<')
	if start < 0 || end <= start {
		return "", fmt.Errorf("no element content in %q", strings.TrimSpace(line))
	}
	return line[start+1 : end], nil
}

// Floats parses the content of a single element as a list of floats.
func Floats(line string) ([]float64, error) {
	c, err := Content(line)
	if err != nil {
		return nil, err
	}

	fields := strings.Fields(c)
	res := make([]float64, len(fields))
	for k, v := range fields {
		res[k], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Vec parses the content of a single element as a 3D vector.
func Vec(line string) (xyz [3]float64, err error) {
	f, err := Floats(line)
	if err != nil {
		return
	}

	if len(f) != 3 {
		err = fmt.Errorf("expected 3 components, got %d", len(f))
		return
	}

	copy(xyz[:], f)
	return
}

// Cells returns the values of the <c> elements of a row like
// `<rc><c>O </c><c>   1</c></rc>`. Values are returned verbatim.
func Cells(line string) []string {
	var cells []string
	for {
		c, ok := Tag(line, "c")
		if !ok {
			return cells
		}
		cells = append(cells, c)
		line = line[strings.Index(line, "</c>")+4:]
	}
}
