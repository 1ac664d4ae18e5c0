// =============================================================================
// Seatmap Converter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks a JSON file
// produced by 'convert' without touching the source XML.
//
// COMMAND USAGE:
//   seatmap validate <file.json> [--format envelope|offer]
//
// CHECKS:
//   1. The file decodes as a Row Map
//   2. Every seat has a matching price and currency (or neither)
//   3. The document matches the Row Map JSON schema
//   4. With --format offer, no SeatType holds the availability token
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/seatmap-converter/internal/jsonwriter"
	"github.com/ginjaninja78/seatmap-converter/internal/seatmap"
	"github.com/ginjaninja78/seatmap-converter/internal/validation"
)

// sourceFormat names the dialect the JSON file was converted from.
var sourceFormat string

var validateCmd = &cobra.Command{
	Use:   "validate <file.json>",
	Short: "Validate a converted seatmap JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := seatmap.ParseFormat(sourceFormat)
		if err != nil {
			return err
		}
		return runValidate(cmd.OutOrStdout(), args[0], format)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&sourceFormat, "format", "", "Dialect the file was converted from (envelope or offer)")
}

// runValidate decodes and checks a converted file, printing a summary to out.
func runValidate(out io.Writer, path string, format seatmap.Format) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	rows, err := jsonwriter.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := validation.Check(rows, data, format); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s is valid: %d row(s), %d seat(s)\n", path, rows.Len(), rows.SeatCount())
	return nil
}
