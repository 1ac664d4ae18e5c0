// =============================================================================
// Seatmap Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   seatmap convert <file.xml>   - Convert a seatmap to <name>_parsed.json
//   seatmap detect <file.xml>    - Print the XML dialect of a file
//   seatmap validate <file.json> - Check a converted file
//   seatmap version              - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Extraction, serialization, validation and export
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/seatmap-converter/cmd"
)

func main() {
	cmd.Execute()
}
