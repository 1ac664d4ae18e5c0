// =============================================================================
// Seatmap Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion pipeline. It converts a single
// seatmap XML file into its parsed JSON file.
//
// CONVERSION PIPELINE:
//   1. Check the input name
//   2. Read the input file
//   3. Parse the XML document
//   4. Detect the dialect and extract the Row Map
//   5. Serialize the Row Map to JSON
//   6. Validate the output
//   7. Write the output file(s)
//
// Every step either succeeds or ends the run. Nothing is written before
// step 7, so a failed conversion leaves no output behind.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/ginjaninja78/seatmap-converter/internal/config"
	"github.com/ginjaninja78/seatmap-converter/internal/jsonwriter"
	"github.com/ginjaninja78/seatmap-converter/internal/seatmap"
	"github.com/ginjaninja78/seatmap-converter/internal/validation"
	"github.com/ginjaninja78/seatmap-converter/internal/xlsxexport"
	"github.com/ginjaninja78/seatmap-converter/pkg/utils"
)

var (
	// ErrInvalidExtension is returned when the input name does not contain ".xml".
	ErrInvalidExtension = errors.New("the file is not an xml")

	// ErrNotFound is returned by DetectFile when the input does not exist.
	ErrNotFound = errors.New("the name of the file does not exist")
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// FilePath is the path to the input file.
	FilePath string

	// OutputFile is the path to the generated JSON file.
	// Empty if nothing was written.
	OutputFile string

	// XLSXFile is the path to the generated workbook, if one was requested.
	XLSXFile string

	// Format is the detected dialect.
	Format seatmap.Format

	// Accepted is true once the input was read and parsed as XML.
	Accepted bool

	// NotFound is true when the input path does not exist. This is not an
	// error: the run ends quietly without output.
	NotFound bool

	// Success indicates whether the conversion completed.
	Success bool

	// Error contains the error if the conversion failed.
	Error error

	// Rows is the extracted seatmap, nil on failure.
	Rows *seatmap.RowMap

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the conversion.
type ProcessingStats struct {
	// Rows is the number of seat rows extracted.
	Rows int

	// Seats is the number of seats extracted.
	Seats int

	// ProcessingTime is the time taken to convert the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single seatmap file.
type Converter struct {
	inputPath  string
	mainConfig *config.MainConfig
	logger     *zap.Logger
}

// New creates a new Converter instance. A nil logger discards log output.
func New(inputPath string, mainConfig *config.MainConfig, logger *zap.Logger) *Converter {
	if mainConfig == nil {
		mainConfig = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		inputPath:  inputPath,
		mainConfig: mainConfig,
		logger:     logger.With(zap.String("file", inputPath)),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{FilePath: c.inputPath}

	// =========================================================================
	// STEP 1-3: READ AND PARSE
	// =========================================================================

	doc, err := c.load(&result)
	if err != nil || result.NotFound {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 4: DETECT AND EXTRACT
	// =========================================================================

	format, rows, err := seatmap.Extract(doc, c.mainConfig.SeatmapNamespaces(), c.logger)
	result.Format = format
	if err != nil {
		result.Error = err
		return result
	}

	result.Stats.Rows = rows.Len()
	result.Stats.Seats = rows.SeatCount()
	c.logger.Debug("Extracted seatmap",
		zap.Stringer("format", format),
		zap.Int("rows", result.Stats.Rows),
		zap.Int("seats", result.Stats.Seats),
	)

	// =========================================================================
	// STEP 5-6: SERIALIZE AND VALIDATE
	// =========================================================================

	data, err := jsonwriter.Encode(rows, c.mainConfig.Indent)
	if err != nil {
		result.Error = fmt.Errorf("failed to encode JSON: %w", err)
		return result
	}

	if c.mainConfig.ShouldValidate() {
		if err := validation.Check(rows, data, format); err != nil {
			result.Error = err
			return result
		}
		c.logger.Debug("Output validated")
	}

	// =========================================================================
	// STEP 7: WRITE OUTPUT
	// =========================================================================

	if c.mainConfig.DryRun {
		c.logger.Info("Dry run, no output written")
	} else {
		if err := c.writeOutput(&result, rows, data); err != nil {
			result.Error = err
			return result
		}
	}

	result.Rows = rows
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// load checks the input name, reads the file and parses it. A missing file
// sets result.NotFound and returns no error.
func (c *Converter) load(result *Result) (*etree.Document, error) {
	if !utils.HasXMLName(c.inputPath) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, c.inputPath)
	}

	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		if utils.IsNotFound(err) {
			c.logger.Warn("Input file does not exist")
			result.NotFound = true
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	doc, err := seatmap.Parse(data)
	if err != nil {
		return nil, err
	}

	result.Accepted = true
	c.logger.Info("File accepted")
	return doc, nil
}

// writeOutput writes the JSON file and, if configured, the workbook.
func (c *Converter) writeOutput(result *Result, rows *seatmap.RowMap, data []byte) error {
	outputPath := utils.OutputPath(c.inputPath, c.mainConfig.OutputDir, ".json")
	if err := utils.WriteFileAtomic(outputPath, data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	result.OutputFile = outputPath
	c.logger.Info("Wrote output", zap.String("output", outputPath))

	if !c.mainConfig.ExportXLSX {
		return nil
	}

	xlsxPath := utils.OutputPath(c.inputPath, c.mainConfig.OutputDir, ".xlsx")
	tmpPath := utils.TempPath(xlsxPath)
	if err := xlsxexport.Write(rows, tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to export workbook: %w", err)
	}
	if err := os.Rename(tmpPath, xlsxPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to export workbook: %w", err)
	}
	result.XLSXFile = xlsxPath
	c.logger.Info("Wrote workbook", zap.String("output", xlsxPath))
	return nil
}

// =============================================================================
// DETECTION ONLY
// =============================================================================

// DetectFile reads and parses path and reports its dialect without
// extracting anything.
func DetectFile(path string) (seatmap.Format, error) {
	if !utils.HasXMLName(path) {
		return seatmap.FormatUnsupported, fmt.Errorf("%w: %s", ErrInvalidExtension, path)
	}
	if !utils.FileExists(path) {
		return seatmap.FormatUnsupported, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return seatmap.FormatUnsupported, fmt.Errorf("failed to read input: %w", err)
	}
	doc, err := seatmap.Parse(data)
	if err != nil {
		return seatmap.FormatUnsupported, err
	}
	return seatmap.Detect(doc.Root()), nil
}
