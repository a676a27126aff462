// Package cfg dispatches several calculations. It avoids to start a
// specific program for each calculation.
package cfg

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kpotier/molview/pkg/util"
)

// Cfg is a structure where the types of calculations are stored. It can be
// instanced through the New method. The length of the Files slice must be equal
// to the length of the Types files. Each calculation requires a configuration
// file where the parameters required to run the calculation are stored.
type Cfg struct {
	Types [][]string `toml:"types" yaml:"types"`
	Files [][]string `toml:"files" yaml:"files"`
}

// New returns an instance of the Cfg structure. It opens and reads the
// configuration file where Types and Files are stored. The configuration file
// uses the TOML format, or YAML if its extension is .yaml or .yml.
func New(path string) (Cfg, error) {
	var cfg Cfg
	err := util.Decode(path, &cfg)
	if err != nil {
		return Cfg{}, err
	}

	if len(cfg.Files) != len(cfg.Types) {
		return Cfg{}, fmt.Errorf("length of Files isn't equal to Types (%d vs %d)",
			len(cfg.Files), len(cfg.Types))
	}

	for k, v := range cfg.Files {
		if len(v) != len(cfg.Types[k]) {
			return Cfg{}, fmt.Errorf("length of Files isn't equal to Types (%d vs %d, step %d)",
				len(v), len(cfg.Types[k]), k)
		}
	}

	return cfg, nil
}

// Start dispatches and performs the calculations. If several calculations are
// in the same array (e.g Types: ["x", "y", "z"]), they will be performed in
// parallel. The next array starts when every calculation of the current one
// is done.
//
// It is a thread blocking method. If an error occurs for a specific
// calculation, the calculation will stop and log the error but the method won't
// stop. It returns the number of calculations which failed.
func (c Cfg) Start(log *slog.Logger) int {
	var (
		wg     sync.WaitGroup
		mux    sync.Mutex
		failed int
	)

	for step, types := range c.Types {
		for rtn, name := range types { // For each calculation
			wg.Add(1)
			go func(step, rtn int, name string) {
				defer wg.Done()

				log := log.With("step", step, "routine", rtn, "type", name, "file", c.Files[step][rtn])
				log.Info("calculation started")
				t := time.Now()

				err := Launch(name, c.Files[step][rtn])
				if err != nil {
					log.Error("calculation failed", "error", err, "duration", time.Since(t))
					mux.Lock()
					failed++
					mux.Unlock()
					return
				}

				log.Info("calculation done", "duration", time.Since(t))
			}(step, rtn, name)
		}
		wg.Wait()
	}

	return failed
}
