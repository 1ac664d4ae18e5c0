// =============================================================================
// Seatmap Converter - JSON Writer
// =============================================================================
//
// This module serializes a Row Map into the JSON document handed to the
// output file:
//
//   {
//     "12": [
//       {"Id":"12A","Available":true,"CabinClass":"Economy",
//        "Price":15,"Currency":"USD","SeatType":["Window"]}
//     ]
//   }
//
// Rows are written in Row Map order (document order). Seat fields are always
// written in the order Id, Available, CabinClass, Price, Currency, SeatType.
//
// ABSENT OFFERS:
//   A seat without a chargeable offer is written with both Price and Currency
//   set to the string "no offer". This is the only place the sentinel exists;
//   inside the converter an absent offer is a nil *seatmap.Price.
//
// =============================================================================

package jsonwriter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/seatmap-converter/internal/seatmap"
)

// AbsenceSentinel replaces both Price and Currency when a seat has no offer.
const AbsenceSentinel = "no offer"

// ErrMixedOffer is returned by Decode when exactly one of Price and Currency
// carries the absence sentinel.
var ErrMixedOffer = errors.New("price and currency disagree on offer absence")

// wireSeat is the on-disk shape of a seat. Field order is the output order.
type wireSeat struct {
	ID         string      `json:"Id"`
	Available  bool        `json:"Available"`
	CabinClass *string     `json:"CabinClass"`
	Price      interface{} `json:"Price"`
	Currency   interface{} `json:"Currency"`
	SeatType   []string    `json:"SeatType"`
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode serializes rows. An indent greater than zero pretty-prints the
// document with that many spaces per level. Encoding the same Row Map twice
// yields identical bytes.
func Encode(rows *seatmap.RowMap, indent int) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, row := range rows.Rows() {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("failed to encode row key %q: %w", row, err)
		}
		buf.Write(key)
		buf.WriteByte(':')

		seats, _ := rows.Get(row)
		wire := make([]wireSeat, len(seats))
		for j, s := range seats {
			wire[j] = toWire(s)
		}

		value, err := json.Marshal(wire)
		if err != nil {
			return nil, fmt.Errorf("failed to encode row %q: %w", row, err)
		}
		buf.Write(value)
	}

	buf.WriteByte('}')

	if indent <= 0 {
		return buf.Bytes(), nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf.Bytes(), "", strings.Repeat(" ", indent)); err != nil {
		return nil, fmt.Errorf("failed to indent JSON: %w", err)
	}
	pretty.WriteByte('\n')
	return pretty.Bytes(), nil
}

func toWire(s seatmap.Seat) wireSeat {
	w := wireSeat{
		ID:         s.ID,
		Available:  s.Available,
		CabinClass: s.CabinClass,
		Price:      AbsenceSentinel,
		Currency:   AbsenceSentinel,
		SeatType:   s.SeatType,
	}
	if s.Offer != nil {
		w.Price = s.Offer.Amount
		w.Currency = s.Offer.Currency
	}
	if w.SeatType == nil {
		w.SeatType = []string{}
	}
	return w
}

// =============================================================================
// DECODING
// =============================================================================

// Decode parses a document produced by Encode back into a Row Map, keeping
// the row order of the document.
func Decode(data []byte) (*seatmap.RowMap, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	rows := seatmap.NewRowMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read row key: %w", err)
		}
		row, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected row key %v", tok)
		}

		var wire []wireSeat
		if err := dec.Decode(&wire); err != nil {
			return nil, fmt.Errorf("row %s: %w", row, err)
		}

		seats := make([]seatmap.Seat, len(wire))
		for i, w := range wire {
			seat, err := fromWire(w)
			if err != nil {
				return nil, fmt.Errorf("row %s seat %s: %w", row, w.ID, err)
			}
			seats[i] = seat
		}
		rows.Set(row, seats)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read end of object: %w", err)
	}

	return rows, nil
}

func fromWire(w wireSeat) (seatmap.Seat, error) {
	seat := seatmap.Seat{
		ID:         w.ID,
		Available:  w.Available,
		CabinClass: w.CabinClass,
		SeatType:   w.SeatType,
	}
	if seat.SeatType == nil {
		seat.SeatType = []string{}
	}

	priceAbsent := w.Price == AbsenceSentinel
	currencyAbsent := w.Currency == AbsenceSentinel
	switch {
	case priceAbsent && currencyAbsent:
		return seat, nil
	case priceAbsent != currencyAbsent:
		return seatmap.Seat{}, ErrMixedOffer
	}

	amount, ok := w.Price.(float64)
	if !ok {
		return seatmap.Seat{}, fmt.Errorf("price %v is not a number", w.Price)
	}
	currency, ok := w.Currency.(string)
	if !ok {
		return seatmap.Seat{}, fmt.Errorf("currency %v is not a string", w.Currency)
	}
	seat.Offer = &seatmap.Price{Amount: amount, Currency: currency}
	return seat, nil
}
