package sheet

import (
	"fmt"
	"strconv"
)

// ReadText returns the text of the cell at ref. Shared-string cells are
// resolved through the pool and inline strings are returned as stored.
// Anything else, including a missing cell or a dangling pool index, reads
// as the empty string.
func ReadText(d *Document, ref CellRef) string {
	row := d.Row(ref.Row)
	if row == nil {
		return ""
	}
	cell := row.Cell(ref.Column)
	if cell == nil {
		return ""
	}

	switch cell.Type {
	case CellTypeSharedString:
		pool := d.SharedStrings()
		if pool == nil {
			return ""
		}
		i, err := strconv.Atoi(cell.Value)
		if err != nil {
			return ""
		}
		text, _ := pool.Get(i)
		return text
	case CellTypeInlineString:
		return cell.Value
	default:
		return ""
	}
}

// WriteText points the cell at ref to text in the shared-string pool,
// reusing an existing slot on an exact match. Missing rows and cells are
// inserted in order. The change stays in memory until Save.
func WriteText(d *Document, ref CellRef, text string) error {
	if d.mode != ReadWrite {
		return newDocumentError(d.Path(), "write "+ref.String(), ErrReadOnly)
	}
	if !ref.Valid() {
		return newDocumentError(d.Path(), "write", fmt.Errorf("invalid cell reference %d:%d", ref.Column, ref.Row))
	}

	slot := d.ensureStrings().Add(text)
	cell := d.ensureRow(ref.Row).ensureCell(ref.Column)
	cell.Type = CellTypeSharedString
	cell.Value = strconv.Itoa(slot)
	d.dirty[ref] = struct{}{}
	return nil
}
