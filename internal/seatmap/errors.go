package seatmap

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is returned when the input is not well-formed XML.
	ErrParse = errors.New("malformed XML")

	// ErrUnsupportedFormat is returned when the root element matches
	// neither dialect.
	ErrUnsupportedFormat = errors.New("unsupported XML format")

	// ErrStructure is returned when a required element, attribute or
	// reference of a recognized dialect is missing or unreadable.
	ErrStructure = errors.New("inconsistent seatmap document")
)

func structuralf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrStructure, fmt.Sprintf(format, args...))
}
