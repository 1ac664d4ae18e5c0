// =============================================================================
// Seatmap Converter - Output Validation
// =============================================================================
//
// This module checks a converted seatmap before it is written to disk.
// Validation is performed at two levels:
//   1. Row Map level: invariants of the in-memory model
//      - a seat id is never empty
//      - price and currency are absent together or present together
//      - offer dialect only: SeatType never contains the availability token
//   2. Document level: the serialized JSON against the embedded JSON schema
//      (rowmap.schema.json), plus offer.schema.json for the offer dialect
//
// The availability token is only special in the offer dialect. Envelope
// documents may carry "AVAILABLE" as ordinary feature text.
//
// ERROR HANDLING:
//   - Violations are collected, not returned one by one
//   - Check folds them into a single ErrInvalidOutput
//
// =============================================================================

package validation

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ginjaninja78/seatmap-converter/internal/seatmap"
)

//go:embed rowmap.schema.json
var rowMapSchema string

//go:embed offer.schema.json
var offerSchema string

// ErrInvalidOutput is returned by Check when the converted output breaks
// at least one rule.
var ErrInvalidOutput = errors.New("converted seatmap failed validation")

// =============================================================================
// VIOLATION TYPE
// =============================================================================

// Violation is a single broken rule.
type Violation struct {
	// Row is the row identifier, empty for document-level violations.
	Row string

	// Seat is the seat id or JSON field path that failed.
	Seat string

	// Rule names the violated rule, e.g. "offer-pair" or a schema keyword.
	Rule string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	if v.Row == "" {
		return fmt.Sprintf("[%s] %s: %s", v.Rule, v.Seat, v.Message)
	}
	return fmt.Sprintf("[%s] Row %s, Seat '%s': %s", v.Rule, v.Row, v.Seat, v.Message)
}

// =============================================================================
// ROW MAP CHECKS
// =============================================================================

// CheckRows validates the in-memory Row Map produced from a document of the
// given format.
func CheckRows(rows *seatmap.RowMap, format seatmap.Format) []*Violation {
	var violations []*Violation

	for _, row := range rows.Rows() {
		seats, _ := rows.Get(row)
		for _, s := range seats {
			if s.ID == "" {
				violations = append(violations, &Violation{
					Row: row, Rule: "seat-id", Message: "seat id is empty",
				})
			}
			if s.Offer != nil && s.Offer.Currency == "" {
				violations = append(violations, &Violation{
					Row: row, Seat: s.ID, Rule: "offer-pair",
					Message: fmt.Sprintf("price %v has no currency", s.Offer.Amount),
				})
			}
			if format != seatmap.FormatOffer {
				continue
			}
			for _, tag := range s.SeatType {
				if tag == seatmap.AvailabilityToken {
					violations = append(violations, &Violation{
						Row: row, Seat: s.ID, Rule: "seat-type",
						Message: fmt.Sprintf("seat type contains %q", seatmap.AvailabilityToken),
					})
				}
			}
		}
	}

	return violations
}

// =============================================================================
// DOCUMENT CHECKS
// =============================================================================

// CheckJSON validates serialized output against the Row Map JSON schema and,
// for the offer dialect, the offer seat-type schema. The error is non-nil only
// when a schema or the document cannot be read.
func CheckJSON(data []byte, format seatmap.Format) ([]*Violation, error) {
	schemas := []string{rowMapSchema}
	if format == seatmap.FormatOffer {
		schemas = append(schemas, offerSchema)
	}

	var violations []*Violation
	for _, schema := range schemas {
		result, err := gojsonschema.Validate(
			gojsonschema.NewStringLoader(schema),
			gojsonschema.NewBytesLoader(data),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to run schema validation: %w", err)
		}
		for _, re := range result.Errors() {
			violations = append(violations, &Violation{
				Seat:    re.Field(),
				Rule:    re.Type(),
				Message: re.Description(),
			})
		}
	}
	return violations, nil
}

// Check runs both levels and reports any violation as ErrInvalidOutput.
func Check(rows *seatmap.RowMap, data []byte, format seatmap.Format) error {
	violations := CheckRows(rows, format)

	docViolations, err := CheckJSON(data, format)
	if err != nil {
		return err
	}
	violations = append(violations, docViolations...)

	if len(violations) > 0 {
		return fmt.Errorf("%w:\n%s", ErrInvalidOutput, FormatViolations(violations))
	}
	return nil
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatViolations formats violations for display or logging.
func FormatViolations(violations []*Violation) string {
	if len(violations) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", len(violations)))
	for i, v := range violations {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, v.Error()))
	}
	return builder.String()
}
