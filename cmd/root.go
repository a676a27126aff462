package main

import (
	"fmt"
	"os"

	"github.com/kpotier/molview/pkg/cfg"
	"github.com/kpotier/molview/pkg/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "molview [flags] <config>",
	Short: "molview loads VASP and QE molecular dynamics runs and analyzes them",
	Long: `molview reads the configuration file given in argument and runs the
calculations it lists (load, bonds, no_pbc, dist_two_atoms, radius_gyration,
gr, volume). The calculations of a row run in parallel, rows run one after
another.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		log := logging.New(level, os.Stderr)

		c, err := cfg.New(args[0])
		if err != nil {
			return fmt.Errorf("New: %w", err)
		}

		if failed := c.Start(log); failed > 0 {
			return fmt.Errorf("%d calculation(s) failed", failed)
		}
		return nil
	},
}

// Execute runs the root command and exits with 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}
