package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CellRef addresses a cell by 1-based column and row.
type CellRef struct {
	Column int
	Row    int
}

// ParseCellRef parses an address such as "C7".
func ParseCellRef(address string) (CellRef, error) {
	col, row, err := excelize.CellNameToCoordinates(address)
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: %w", address, err)
	}
	return CellRef{Column: col, Row: row}, nil
}

// String returns the address form, e.g. "C7". Invalid references render as "?".
func (r CellRef) String() string {
	name, err := excelize.CoordinatesToCellName(r.Column, r.Row)
	if err != nil {
		return "?"
	}
	return name
}

// ColumnName returns the column letters of the reference.
func (r CellRef) ColumnName() string {
	name, err := excelize.ColumnNumberToName(r.Column)
	if err != nil {
		return "?"
	}
	return name
}

// Valid reports whether both coordinates are positive.
func (r CellRef) Valid() bool {
	return r.Column > 0 && r.Row > 0
}
