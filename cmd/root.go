// =============================================================================
// Seatmap Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (seatmap)
//   ├── convertCmd  (seatmap convert <file.xml>)
//   ├── detectCmd   (seatmap detect <file.xml>)
//   ├── validateCmd (seatmap validate <file.json>)
//   └── versionCmd  (seatmap version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration file named by --config
//   2. Builds the logger from log_level (--verbose forces debug)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/seatmap-converter/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// mainConfig and logger are set up by the root command before any
// subcommand runs.
var (
	mainConfig *config.MainConfig
	logger     *zap.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "seatmap",
	Short: "Seatmap Converter - Turn airline seat-map XML into a per-row JSON map",
	Long: `Seatmap Converter reads an airline seat-availability XML document and
writes a JSON object keyed by row number, listing every seat with its
availability, cabin class, offer price and features.

Two XML dialects are recognised:
  - SOAP envelope carrying an OTA_AirSeatMapRS
  - NDC SeatAvailabilityRS

Example Usage:
  seatmap convert seatmap1.xml            # Writes seatmap1_parsed.json
  seatmap convert seatmap1.xml --xlsx     # Also writes seatmap1_parsed.xlsx
  seatmap detect seatmap2.xml             # Prints the detected dialect
  seatmap validate seatmap1_parsed.json   # Checks a produced file`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		mainConfig, err = config.LoadMainConfig(cfgFile, !cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		logger, err = newLogger(mainConfig.LogLevel, verbose)
		return err
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// newLogger builds a console logger writing to stderr at the given level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
