// Package cmd wires the solver CLI (spec.md §6): a cobra root command with
// run/history/version subcommands, grounded on cmd/cli/cmd's PersistentPreRunE
// logger setup and BinName()-based dynamic examples.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/g2dcsp/solver/pkg/utils"
)

var (
	verbose bool
	logger  utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "g2dcsp-solver",
	Short: "A guillotine 2D cutting stock problem solver",
	Long: `g2dcsp-solver packs rectangular parts onto stock sheets using
axis-aligned guillotine cuts, searching for a low-cost cutting plan with a
parallel ruin-and-recreate metaheuristic.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)
		return nil
	},
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	binName := BinName()
	rootCmd.Example = `  # Solve an instance with a config file, writing the result to output.json
  ` + binName + ` run instance.json config.yaml output.json

  # Inspect past runs recorded in the history store
  ` + binName + ` history list

  # Print version information
  ` + binName + ` version`
}

// GetLogger returns the root command's configured logger.
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
