// Public domain.

// Command longfit reconstructs Xmax, R and L of one CORSIKA .long file.
//
// Usage:
//
//	longfit <file.long> --zen <radians> [--removeFinal20gcm2] [--preset icecube|auger]
//
// One line of space separated values is written to stdout, without a
// trailing newline, for appending to a collected results file.
// Diagnostics go to stderr.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/soniakeys/unit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/soniakeys/longfit/internal/pipeline"
)

// newRootCmd returns the command.  The logger is built before the command
// runs and stored in *logger.
func newRootCmd(logger **zap.Logger) *cobra.Command {
	var (
		zenith     float64
		trimTail   bool
		presetName string
		seed       uint64
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "longfit <file.long>",
		Short: "Fit longitudinal shower profiles of CORSIKA .long files",
		Long: `longfit reads the longitudinal profile of a CORSIKA .long file, reads off
muon and electromagnetic particle numbers at ground level, and fits the profile
with Gaisser-Hillas and Andringa models for Xmax, R and L.

The result is one line of space separated numbers on stdout.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			*logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = (*logger).Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := pipeline.PresetByName(presetName)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			cfg := pipeline.Config{
				Path:     args[0],
				Zenith:   unit.Angle(zenith),
				TrimTail: trimTail,
				Preset:   preset,
				Seed:     seed,
			}
			rec, err := pipeline.Run(cfg, *logger)
			if err != nil {
				return err
			}
			_, err = rec.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	f := cmd.Flags()
	f.Float64Var(&zenith, "zen", 0, "zenith angle of the shower (rad)")
	f.BoolVar(&trimTail, "removeFinal20gcm2", false, "remove the final 20 g/cm² of the profile before fitting")
	f.StringVar(&presetName, "preset", pipeline.IceCube.Name,
		"site preset: "+strings.Join(pipeline.PresetNames(), ", "))
	f.Uint64Var(&seed, "seed", 0, "seed for the jitter of initial guesses (default from time)")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = cmd.MarkFlagRequired("zen")
	return cmd
}

func main() {
	var logger *zap.Logger
	if err := newRootCmd(&logger).Execute(); err != nil {
		if logger != nil {
			logger.Error("reconstruction failed", zap.Error(err))
			_ = logger.Sync()
		}
		fmt.Fprintf(os.Stderr, "longfit: %v\n", err)
		os.Exit(1)
	}
}
