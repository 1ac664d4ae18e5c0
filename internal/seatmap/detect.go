// =============================================================================
// Seatmap Converter - Format Detection and Dispatch
// =============================================================================
//
// A seatmap document arrives in one of two unrelated XML vocabularies. The
// root element decides which one:
//
//   | Root local name ends with | Format         | Extractor         |
//   |---------------------------|----------------|-------------------|
//   | Envelope                  | FormatEnvelope | ExtractEnvelope   |
//   | SeatAvailabilityRS        | FormatOffer    | ExtractOffer      |
//   | anything else             | unsupported    | none              |
//
// =============================================================================

package seatmap

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Format identifies the dialect of a seatmap document.
type Format int

const (
	FormatUnsupported Format = iota
	FormatEnvelope
	FormatOffer
)

func (f Format) String() string {
	switch f {
	case FormatEnvelope:
		return "envelope"
	case FormatOffer:
		return "offer"
	default:
		return "unsupported"
	}
}

// ParseFormat is the inverse of Format.String. The empty string maps to
// FormatUnsupported.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "envelope":
		return FormatEnvelope, nil
	case "offer":
		return FormatOffer, nil
	case "", "unsupported":
		return FormatUnsupported, nil
	default:
		return FormatUnsupported, fmt.Errorf("unknown format %q", s)
	}
}

// Parse reads a document tree from raw XML bytes.
func Parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrParse)
	}

	// etree stops at neither a second root nor trailing text.
	if n := len(doc.ChildElements()); n != 1 {
		return nil, fmt.Errorf("%w: %d top-level elements", ErrParse, n)
	}
	for _, tok := range doc.Child {
		if cd, ok := tok.(*etree.CharData); ok && strings.TrimSpace(cd.Data) != "" {
			return nil, fmt.Errorf("%w: text outside the root element", ErrParse)
		}
	}
	return doc, nil
}

// Detect selects the dialect from the local name of the root element.
// Namespace prefixes are ignored.
func Detect(root *etree.Element) Format {
	if root == nil {
		return FormatUnsupported
	}
	switch {
	case strings.HasSuffix(root.Tag, "Envelope"):
		return FormatEnvelope
	case strings.HasSuffix(root.Tag, "SeatAvailabilityRS"):
		return FormatOffer
	default:
		return FormatUnsupported
	}
}

// Extract detects the dialect of doc and runs the matching extractor. The
// first failure is returned as is; the other extractor is never tried.
func Extract(doc *etree.Document, ns Namespaces, log *zap.Logger) (Format, *RowMap, error) {
	root := doc.Root()
	format := Detect(root)

	var (
		rows *RowMap
		err  error
	)
	switch format {
	case FormatEnvelope:
		rows, err = ExtractEnvelope(root, ns.Envelope, log)
	case FormatOffer:
		rows, err = ExtractOffer(root, ns.Offer, log)
	default:
		tag := "<nil>"
		if root != nil {
			tag = root.FullTag()
		}
		return format, nil, fmt.Errorf("%w: root element %q", ErrUnsupportedFormat, tag)
	}
	if err != nil {
		return format, nil, fmt.Errorf("%s dialect: %w", format, err)
	}
	return format, rows, nil
}
