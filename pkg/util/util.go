// Package util contains some methods that can be used by every other package.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Write writes the output file according to a specific scheme. It writes the
// date, parses the structure in a TOML format and writes it. This method
// returns the file for further writing. It must be closed at the end of the
// calculation.
func Write(path string, structure interface{}) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(f, "Date: %v\n", time.Now().Format("2006-01-02 15:04:05 -0700 MST"))

	enc := toml.NewEncoder(f)
	err = enc.Encode(structure)
	if err != nil {
		f.Close()
		return nil, err
	}

	f.Write([]byte{'\n'})
	return f, nil
}

// Decode opens the configuration file located at path and decodes it into v.
// Files ending with .yaml or .yml are decoded as YAML, every other file as
// TOML.
func Decode(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(v)
	default:
		err = toml.NewDecoder(f).Decode(v)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	return nil
}

// Pow returns x**y, the base-x exponential of y.
func Pow(x float64, n int) float64 {
	res := x
	for i := 0; i < (n - 1); i++ {
		res *= x
	}
	return res
}
