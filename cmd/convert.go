// =============================================================================
// Seatmap Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, the main command of the tool. It
// runs the conversion pipeline on one file and reports the outcome.
//
// COMMAND USAGE:
//   seatmap convert <file.xml> [flags]
//
// FLAGS:
//   --output-dir  : Directory for the output files (default: next to input)
//   --dry-run     : Convert and validate without writing output files
//   --indent      : Spaces per JSON nesting level (0 = compact)
//   --xlsx        : Also write the seatmap as a workbook
//   --validate    : Check the output before writing it
//
// Flags override the values from the configuration file.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/seatmap-converter/internal/config"
	"github.com/ginjaninja78/seatmap-converter/internal/converter"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	outputDir      string
	dryRun         bool
	indent         int
	exportXLSX     bool
	validateOutput bool
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert <file.xml>",
	Short: "Convert a seatmap XML file to JSON",
	Long: `The convert command reads a seatmap XML file, detects its dialect and
writes <name>_parsed.json next to it, where <name> is the file name up to
its first period.

Nothing is written when the conversion fails. A missing input file is
reported but is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyConvertFlags(cmd, mainConfig)
		return runConvert(cmd.OutOrStdout(), args[0], mainConfig, logger)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the output files")
	convertCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Convert and validate without writing output files")
	convertCmd.Flags().IntVar(&indent, "indent", 0, "Spaces per JSON nesting level (0 = compact)")
	convertCmd.Flags().BoolVar(&exportXLSX, "xlsx", false, "Also write the seatmap as a workbook")
	convertCmd.Flags().BoolVar(&validateOutput, "validate", true, "Check the output before writing it")
}

// applyConvertFlags copies the flags set on the command line into cfg.
func applyConvertFlags(cmd *cobra.Command, cfg *config.MainConfig) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("indent") {
		cfg.Indent = indent
	}
	if flags.Changed("xlsx") {
		cfg.ExportXLSX = exportXLSX
	}
	if flags.Changed("validate") {
		enabled := validateOutput
		cfg.ValidateOutput = &enabled
	}
	cfg.DryRun = dryRun
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert converts one file and prints the user-facing messages to out.
func runConvert(out io.Writer, path string, cfg *config.MainConfig, logger *zap.Logger) error {
	if cfg.Indent < 0 || cfg.Indent > 8 {
		return fmt.Errorf("indent must be between 0 and 8, got %d", cfg.Indent)
	}

	logger = logger.With(zap.String("run", uuid.NewString()))
	result := converter.New(path, cfg, logger).Run()

	if result.NotFound {
		fmt.Fprintln(out, "The name of the file does not exist")
		return nil
	}
	if result.Accepted {
		fmt.Fprintf(out, "File accepted: %s\n", path)
	}
	if result.Error != nil {
		return result.Error
	}

	logger.Info("Conversion complete",
		zap.Stringer("format", result.Format),
		zap.Int("rows", result.Stats.Rows),
		zap.Int("seats", result.Stats.Seats),
		zap.Duration("elapsed", result.Stats.ProcessingTime),
	)

	if cfg.DryRun {
		fmt.Fprintln(out, "Your file was successfully parsed (dry run, nothing written)")
		return nil
	}
	fmt.Fprintln(out, "Your file was successfully parsed")
	fmt.Fprintf(out, "Output: %s\n", result.OutputFile)
	if result.XLSXFile != "" {
		fmt.Fprintf(out, "Workbook: %s\n", result.XLSXFile)
	}
	return nil
}
