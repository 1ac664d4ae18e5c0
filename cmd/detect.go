package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/seatmap-converter/internal/converter"
	"github.com/ginjaninja78/seatmap-converter/internal/seatmap"
)

// detectCmd reports which XML dialect a file uses without converting it.
var detectCmd = &cobra.Command{
	Use:   "detect <file.xml>",
	Short: "Print the dialect of a seatmap XML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetect(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(out io.Writer, path string) error {
	format, err := converter.DetectFile(path)
	if errors.Is(err, converter.ErrNotFound) {
		fmt.Fprintln(out, "The name of the file does not exist")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", path, format)
	if format == seatmap.FormatUnsupported {
		return fmt.Errorf("%w: %s", seatmap.ErrUnsupportedFormat, path)
	}
	return nil
}
