// =============================================================================
// Seatmap Converter - XLSX Export
// =============================================================================
//
// Writes a converted seatmap as a single-sheet workbook, one line per seat:
//
//   | Row | Id  | Available | CabinClass | Price    | Currency | SeatType        |
//   |-----|-----|-----------|------------|----------|----------|-----------------|
//   | 12  | 12A | true      | Economy    | 15       | USD      | Window, Aisle   |
//   | 12  | 12B | false     |            | no offer | no offer |                 |
//
// Rows follow Row Map order. Absent offers use the same "no offer" marker as
// the JSON output.
//
// =============================================================================

package xlsxexport

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/seatmap-converter/internal/jsonwriter"
	"github.com/ginjaninja78/seatmap-converter/internal/seatmap"
)

// SheetName is the name of the only sheet in the workbook.
const SheetName = "Seatmap"

// Header is the first line of the sheet.
var Header = []interface{}{"Row", "Id", "Available", "CabinClass", "Price", "Currency", "SeatType"}

// Write saves rows as a workbook at path.
func Write(rows *seatmap.RowMap, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, 1, Header); err != nil {
		return err
	}

	line := 2
	for _, row := range rows.Rows() {
		seats, _ := rows.Get(row)
		for _, s := range seats {
			if err := setRow(f, line, seatValues(row, s)); err != nil {
				return err
			}
			line++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, line int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return fmt.Errorf("failed to address line %d: %w", line, err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write line %d: %w", line, err)
	}
	return nil
}

func seatValues(row string, s seatmap.Seat) []interface{} {
	cabin := ""
	if s.CabinClass != nil {
		cabin = *s.CabinClass
	}

	var price, currency interface{} = jsonwriter.AbsenceSentinel, jsonwriter.AbsenceSentinel
	if s.Offer != nil {
		price, currency = s.Offer.Amount, s.Offer.Currency
	}

	return []interface{}{
		row,
		s.ID,
		s.Available,
		cabin,
		price,
		currency,
		strings.Join(s.SeatType, ", "),
	}
}
