// =============================================================================
// Seatmap Converter - Seat Record Model
// =============================================================================
//
// This file contains the normalized output model shared by both dialect
// extractors. Types defined here are used by:
//   - converter
//   - jsonwriter
//   - validation
//   - xlsxexport
//
// =============================================================================

package seatmap

import "math"

// AvailabilityToken is the seat definition description the offer dialect
// uses to mark a seat as bookable. It is folded into Seat.Available and
// never appears in Seat.SeatType.
const AvailabilityToken = "AVAILABLE"

// =============================================================================
// SEAT RECORD
// =============================================================================

// Seat is one physical seat in the normalized output.
type Seat struct {
	// ID is the seat identifier, e.g. "12A".
	ID string

	// Available reports whether the seat may be booked.
	Available bool

	// CabinClass is the cabin designation (e.g. "Economy").
	// nil when the source dialect carries no cabin per row.
	CabinClass *string

	// Offer is the chargeable fee for the seat, nil when none applies.
	// Price and currency are absent together.
	Offer *Price

	// SeatType holds descriptive tags in source document order.
	SeatType []string
}

// Price is an amount in a given ISO currency.
type Price struct {
	Amount   float64
	Currency string
}

// =============================================================================
// ROW MAP
// =============================================================================

// RowMap maps a row identifier to its seats. Rows keep the order in which
// they were first stored so the output follows the source document.
type RowMap struct {
	order []string
	rows  map[string][]Seat
}

// NewRowMap returns an empty RowMap.
func NewRowMap() *RowMap {
	return &RowMap{rows: make(map[string][]Seat)}
}

// Set stores the seats of a row. Storing a row that already exists replaces
// its seats and keeps its original position.
func (m *RowMap) Set(row string, seats []Seat) {
	if _, exists := m.rows[row]; !exists {
		m.order = append(m.order, row)
	}
	if seats == nil {
		seats = []Seat{}
	}
	m.rows[row] = seats
}

// Get returns the seats of a row.
func (m *RowMap) Get(row string) ([]Seat, bool) {
	seats, ok := m.rows[row]
	return seats, ok
}

// Rows returns the row identifiers in insertion order.
func (m *RowMap) Rows() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of rows.
func (m *RowMap) Len() int {
	return len(m.order)
}

// SeatCount returns the total number of seats across all rows.
func (m *RowMap) SeatCount() int {
	n := 0
	for _, seats := range m.rows {
		n += len(seats)
	}
	return n
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
