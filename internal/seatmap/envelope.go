// =============================================================================
// Seatmap Converter - Envelope Dialect Extractor
// =============================================================================
//
// The envelope dialect is an OTA_AirSeatMapRS wrapped in a SOAP envelope:
//
//   soap:Envelope
//   └── soap:Body
//       └── OTA_AirSeatMapRS
//           └── SeatMapResponses
//               └── SeatMapResponse
//                   └── SeatMapDetails
//                       └── CabinClass   (CabinType="Economy")
//                           └── RowInfo  (RowNumber="12")
//                               └── SeatInfo
//                                   ├── Summary  (SeatNumber, AvailableInd)
//                                   ├── Features (text, or extension="..." when text is "Other")
//                                   └── Service
//                                       └── Fee (Amount, DecimalPlaces, CurrencyCode)
//
// Pricing lives on each seat. Amounts are fixed-point integers scaled by
// DecimalPlaces.
//
// =============================================================================

package seatmap

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// otherFeature is the placeholder feature text whose meaning is carried by
// the extension attribute.
const otherFeature = "Other"

// ExtractEnvelope walks an envelope-dialect document and returns its rows.
func ExtractEnvelope(root *etree.Element, ns EnvelopeNamespaces, log *zap.Logger) (*RowMap, error) {
	rows := NewRowMap()

	var details []*etree.Element
	for _, body := range children(root, ns.SOAP, "Body") {
		details = append(details, descend(body, ns.OTA,
			"OTA_AirSeatMapRS", "SeatMapResponses", "SeatMapResponse", "SeatMapDetails")...)
	}

	for _, d := range details {
		for _, cabin := range children(d, ns.OTA, "CabinClass") {
			cabinType := cabin.SelectAttrValue("CabinType", "")

			for _, row := range cabin.ChildElements() {
				rowNumber := row.SelectAttr("RowNumber")
				if rowNumber == nil {
					return nil, structuralf("row %q in cabin %q has no RowNumber", row.Tag, cabinType)
				}

				cabinClass := cabinClassFor(cabinType, row)
				seats := []Seat{}
				for _, info := range children(row, ns.OTA, "SeatInfo") {
					seat, err := envelopeSeat(info, ns, cabinClass, log)
					if err != nil {
						return nil, structuralf("row %s: %v", rowNumber.Value, err)
					}
					seats = append(seats, seat)
				}

				if _, dup := rows.Get(rowNumber.Value); dup {
					log.Debug("Row repeated, keeping the last occurrence", zap.String("row", rowNumber.Value))
				}
				rows.Set(rowNumber.Value, seats)
			}
		}
	}

	return rows, nil
}

// cabinClassFor prefers the cabin group's CabinType and falls back to the
// row's own attribute.
func cabinClassFor(cabinType string, row *etree.Element) *string {
	if cabinType == "" {
		cabinType = row.SelectAttrValue("CabinType", "")
	}
	if cabinType == "" {
		return nil
	}
	return &cabinType
}

func envelopeSeat(info *etree.Element, ns EnvelopeNamespaces, cabinClass *string, log *zap.Logger) (Seat, error) {
	summary := child(info, ns.OTA, "Summary")
	if summary == nil {
		return Seat{}, errors.New("SeatInfo without Summary")
	}

	seat := Seat{
		ID:         summary.SelectAttrValue("SeatNumber", ""),
		Available:  summary.SelectAttrValue("AvailableInd", "") == "true",
		CabinClass: cabinClass,
		SeatType:   []string{},
	}

	// An empty Service element carries no fee.
	if service := child(info, ns.OTA, "Service"); service != nil && len(service.ChildElements()) > 0 {
		price, err := envelopeFee(service, ns)
		if err != nil {
			return Seat{}, fmt.Errorf("seat %s: %w", seat.ID, err)
		}
		seat.Offer = price
	}

	for _, feature := range children(info, ns.OTA, "Features") {
		text := strings.TrimSpace(feature.Text())
		if text == otherFeature {
			ext := feature.SelectAttrValue("extension", "")
			if ext == "" {
				log.Debug("Other feature without extension", zap.String("seat", seat.ID))
				ext = text
			}
			text = ext
		}
		if text == "" {
			log.Debug("Skipping empty feature", zap.String("seat", seat.ID))
			continue
		}
		seat.SeatType = append(seat.SeatType, text)
	}

	return seat, nil
}

// envelopeFee converts the fixed-point Fee of a Service into a Price.
func envelopeFee(service *etree.Element, ns EnvelopeNamespaces) (*Price, error) {
	fee := child(service, ns.OTA, "Fee")
	if fee == nil {
		return nil, errors.New("Service without Fee")
	}

	amount, err := strconv.ParseFloat(fee.SelectAttrValue("Amount", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("fee Amount: %w", err)
	}
	places, err := strconv.Atoi(fee.SelectAttrValue("DecimalPlaces", ""))
	if err != nil {
		return nil, fmt.Errorf("fee DecimalPlaces: %w", err)
	}
	currency := fee.SelectAttrValue("CurrencyCode", "")
	if currency == "" {
		return nil, errors.New("fee without CurrencyCode")
	}

	amount /= math.Pow10(places)
	if !isFinite(amount) {
		return nil, fmt.Errorf("fee Amount %q with DecimalPlaces %d is not a finite number",
			fee.SelectAttrValue("Amount", ""), places)
	}

	return &Price{
		Amount:   amount,
		Currency: currency,
	}, nil
}
