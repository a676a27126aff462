// Package vasptest writes small VASP output files for tests.
package vasptest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Doc describes an output file. Frames[0] is written as the initial structure,
// the following frames as the steps of the run. Final, when set, is written
// as the final structure after the last step.
type Doc struct {
	Species []string
	Types   []int
	Potim   float64
	Masses  []float64
	Basis   [3][3]float64
	Frames  [][][3]float64
	Final   bool
}

// Write writes the document in the VASP XML layout.
func Write(w io.Writer, d Doc) {
	fmt.Fprintln(w, `<?xml version="1.0" encoding="ISO-8859-1"?>`)
	fmt.Fprintln(w, `<modeling>`)
	fmt.Fprintln(w, ` <incar>`)
	fmt.Fprintf(w, "  <i name=\"POTIM\">    %.8f</i>\n", d.Potim)
	fmt.Fprintln(w, ` </incar>`)
	fmt.Fprintln(w, ` <atominfo>`)
	fmt.Fprintf(w, "  <atoms>     %d </atoms>\n", len(d.Species))
	fmt.Fprintln(w, `  <array name="atoms" >`)
	fmt.Fprintln(w, `   <dimension dim="1">ion</dimension>`)
	fmt.Fprintln(w, `   <field type="string">element</field>`)
	fmt.Fprintln(w, `   <field type="int">atomtype</field>`)
	fmt.Fprintln(w, `   <set>`)
	for k, v := range d.Species {
		fmt.Fprintf(w, "    <rc><c>%-2s</c><c>   %d</c></rc>\n", v, d.Types[k])
	}
	fmt.Fprintln(w, `   </set>`)
	fmt.Fprintln(w, `  </array>`)
	fmt.Fprintln(w, ` </atominfo>`)
	fmt.Fprintln(w, ` <parameters>`)
	fmt.Fprint(w, `  <v name="POMASS">`)
	for _, m := range d.Masses {
		fmt.Fprintf(w, " %16.8f", m)
	}
	fmt.Fprintln(w, `</v>`)
	fmt.Fprintln(w, ` </parameters>`)

	for k, frame := range d.Frames {
		if k == 0 {
			fmt.Fprintln(w, ` <structure name="initialpos" >`)
			writeStructure(w, d.Basis, frame)
			continue
		}
		fmt.Fprintln(w, ` <calculation>`)
		fmt.Fprintln(w, `  <structure>`)
		writeStructure(w, d.Basis, frame)
		fmt.Fprintln(w, ` </calculation>`)
	}

	if d.Final && len(d.Frames) > 0 {
		fmt.Fprintln(w, ` <structure name="finalpos" >`)
		writeStructure(w, d.Basis, d.Frames[len(d.Frames)-1])
	}
	fmt.Fprintln(w, `</modeling>`)
}

func writeStructure(w io.Writer, basis [3][3]float64, frame [][3]float64) {
	fmt.Fprintln(w, `  <crystal>`)
	fmt.Fprintln(w, `   <varray name="basis" >`)
	for _, v := range basis {
		fmt.Fprintf(w, "    <v> %16.8f %16.8f %16.8f </v>\n", v[0], v[1], v[2])
	}
	fmt.Fprintln(w, `   </varray>`)
	fmt.Fprintln(w, `  </crystal>`)
	fmt.Fprintln(w, `  <varray name="positions" >`)
	for _, v := range frame {
		fmt.Fprintf(w, "   <v> %16.8f %16.8f %16.8f </v>\n", v[0], v[1], v[2])
	}
	fmt.Fprintln(w, `  </varray>`)
	fmt.Fprintln(w, ` </structure>`)
}

// WriteFile writes the document into dir/name.
func WriteFile(dir, name string, d Doc) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	Write(f, d)
	return nil
}
