// =============================================================================
// Seatmap Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter:
//   - Input name checks
//   - Output file naming
//   - Atomic output writes
//
// OUTPUT NAMING:
//   The output stem is the input file name up to its first period:
//
//     flights/seatmap1.xml        -> flights/seatmap1_parsed.json
//     flights/LH.400.seatmap.xml  -> flights/LH_parsed.json
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ParsedSuffix is appended to the stem of every output file.
const ParsedSuffix = "_parsed"

// =============================================================================
// INPUT CHECKS
// =============================================================================

// HasXMLName reports whether the path names an XML file. Any occurrence of
// ".xml" in the name is accepted.
func HasXMLName(path string) bool {
	return strings.Contains(path, ".xml")
}

// FileExists reports whether path resolves to an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsNotFound reports whether err means the file does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// Stem returns the base name of path up to its first period.
func Stem(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

// OutputPath builds "<dir>/<stem>_parsed<ext>" for an input path. An empty
// outputDir places the file next to the input.
func OutputPath(inputPath, outputDir, ext string) string {
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}
	return filepath.Join(outputDir, Stem(inputPath)+ParsedSuffix+ext)
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteFileAtomic writes data to path through a temporary file in the same
// directory. The target either keeps its previous content or holds all of
// data; it is never partially written.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := TempPath(path)
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// TempPath returns a unique hidden sibling of path used while writing.
func TempPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.New().String()+".tmp")
}
