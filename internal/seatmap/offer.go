// =============================================================================
// Seatmap Converter - Offer Dialect Extractor
// =============================================================================
//
// The offer dialect (IATA NDC SeatAvailabilityRS) keeps prices and seat
// descriptions in lookup tables and references them by identifier:
//
//   SeatAvailabilityRS
//   ├── ALaCarteOffer
//   │   └── ALaCarteOfferItem (OfferItemID)
//   │       └── UnitPriceDetail/TotalAmount/SimpleCurrencyPrice (Code) 25.00
//   ├── DataLists
//   │   └── SeatDefinitionList
//   │       └── SeatDefinition (SeatDefinitionID)
//   │           └── Description/Text   AVAILABLE | WINDOW | ...
//   └── SeatMap
//       └── Cabin
//           └── Row
//               ├── Number   5
//               └── Seat
//                   ├── Column             C
//                   ├── OfferItemRefs      OFFER1
//                   └── SeatDefinitionRef  AVAIL   (repeated)
//
// Both lookup tables are complete before the first row is read. There is no
// per-row cabin class in this dialect.
//
// =============================================================================

package seatmap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// ExtractOffer walks an offer-dialect document and returns its rows.
func ExtractOffer(root *etree.Element, ns OfferNamespaces, log *zap.Logger) (*RowMap, error) {
	offers, err := offerLookup(root, ns)
	if err != nil {
		return nil, structuralf("offer items: %v", err)
	}
	defs, err := seatDefinitionLookup(root, ns)
	if err != nil {
		return nil, structuralf("seat definitions: %v", err)
	}
	log.Debug("Built lookup tables", zap.Int("offers", len(offers)), zap.Int("seatDefinitions", len(defs)))

	rows := NewRowMap()
	for _, row := range descend(root, ns.Default, "SeatMap", "Cabin", "Row") {
		number := child(row, ns.Default, "Number")
		if number == nil {
			return nil, structuralf("row without Number")
		}
		rowNumber := strings.TrimSpace(number.Text())

		seats := []Seat{}
		for _, el := range children(row, ns.Default, "Seat") {
			seat, err := offerSeat(el, ns, rowNumber, offers, defs)
			if err != nil {
				return nil, structuralf("row %s: %v", rowNumber, err)
			}
			seats = append(seats, seat)
		}

		if _, dup := rows.Get(rowNumber); dup {
			log.Debug("Row repeated, keeping the last occurrence", zap.String("row", rowNumber))
		}
		rows.Set(rowNumber, seats)
	}

	return rows, nil
}

// offerLookup maps each OfferItemID to its unit price.
func offerLookup(root *etree.Element, ns OfferNamespaces) (map[string]Price, error) {
	offers := make(map[string]Price)
	for _, item := range descend(root, ns.Default, "ALaCarteOffer", "ALaCarteOfferItem") {
		id := item.SelectAttrValue("OfferItemID", "")
		if id == "" {
			return nil, errors.New("ALaCarteOfferItem without OfferItemID")
		}

		prices := descend(item, ns.Default, "UnitPriceDetail", "TotalAmount", "SimpleCurrencyPrice")
		if len(prices) == 0 {
			return nil, fmt.Errorf("offer item %s has no SimpleCurrencyPrice", id)
		}
		scp := prices[0]

		amount, err := strconv.ParseFloat(strings.TrimSpace(scp.Text()), 64)
		if err != nil {
			return nil, fmt.Errorf("offer item %s price: %w", id, err)
		}
		if !isFinite(amount) {
			return nil, fmt.Errorf("offer item %s price %q is not a finite number", id, strings.TrimSpace(scp.Text()))
		}
		currency := scp.SelectAttrValue("Code", "")
		if currency == "" {
			return nil, fmt.Errorf("offer item %s has no currency Code", id)
		}

		offers[id] = Price{Amount: amount, Currency: currency}
	}
	return offers, nil
}

// seatDefinitionLookup maps each SeatDefinitionID to its description text.
func seatDefinitionLookup(root *etree.Element, ns OfferNamespaces) (map[string]string, error) {
	defs := make(map[string]string)
	for _, def := range descend(root, ns.Default, "DataLists", "SeatDefinitionList", "SeatDefinition") {
		id := def.SelectAttrValue("SeatDefinitionID", "")
		if id == "" {
			return nil, errors.New("SeatDefinition without SeatDefinitionID")
		}
		texts := descend(def, ns.Default, "Description", "Text")
		if len(texts) == 0 {
			return nil, fmt.Errorf("seat definition %s has no Description/Text", id)
		}
		defs[id] = strings.TrimSpace(texts[0].Text())
	}
	return defs, nil
}

func offerSeat(el *etree.Element, ns OfferNamespaces, rowNumber string, offers map[string]Price, defs map[string]string) (Seat, error) {
	column := child(el, ns.Default, "Column")
	if column == nil {
		return Seat{}, errors.New("Seat without Column")
	}

	seat := Seat{
		ID:       rowNumber + strings.TrimSpace(column.Text()),
		SeatType: []string{},
	}

	if ref := child(el, ns.Default, "OfferItemRefs"); ref != nil {
		key := strings.TrimSpace(ref.Text())
		price, ok := offers[key]
		if !ok {
			return Seat{}, fmt.Errorf("seat %s references unknown offer item %q", seat.ID, key)
		}
		seat.Offer = &price
	}

	for _, ref := range children(el, ns.Default, "SeatDefinitionRef") {
		key := strings.TrimSpace(ref.Text())
		desc, ok := defs[key]
		if !ok {
			return Seat{}, fmt.Errorf("seat %s references unknown seat definition %q", seat.ID, key)
		}
		if desc == AvailabilityToken {
			seat.Available = true
			continue
		}
		seat.SeatType = append(seat.SeatType, desc)
	}

	return seat, nil
}
