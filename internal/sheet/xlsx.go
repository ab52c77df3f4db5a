package sheet

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sharedStringsPart = "xl/sharedStrings.xml"

// XLSXStore reads and writes the first worksheet of an xlsx workbook.
type XLSXStore struct {
	path string
}

// NewXLSXStore creates a store for the workbook at path.
func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{path: path}
}

// Path returns the workbook path.
func (s *XLSXStore) Path() string {
	return s.path
}

// Load reads every non-empty cell of the first worksheet. Shared strings
// are rebuilt into a pool in first-seen order.
func (s *XLSXStore) Load() (*Sheet, error) {
	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, newDocumentError(s.path, "open", ErrNoSheet)
	}
	name := names[0]

	values, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, newDocumentError(s.path, "read sheet "+name, err)
	}

	sh := &Sheet{Name: name}
	if _, ok := f.Pkg.Load(sharedStringsPart); ok {
		sh.Strings = NewSharedStrings()
	}

	for i, rowValues := range values {
		row := &Row{Index: i + 1}
		for j, value := range rowValues {
			if value == "" {
				continue
			}
			ref := CellRef{Column: j + 1, Row: i + 1}
			typ, err := f.GetCellType(name, ref.String())
			if err != nil {
				return nil, newDocumentError(s.path, "read cell "+ref.String(), err)
			}

			cell := &Cell{Ref: ref, Value: value}
			switch typ {
			case excelize.CellTypeSharedString:
				if sh.Strings == nil {
					sh.Strings = NewSharedStrings()
				}
				cell.Type = CellTypeSharedString
				cell.Value = strconv.Itoa(sh.Strings.Add(value))
			case excelize.CellTypeInlineString:
				cell.Type = CellTypeInlineString
			case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
				cell.Type = CellTypeNumber
			case excelize.CellTypeBool:
				cell.Type = CellTypeBool
			case excelize.CellTypeFormula:
				cell.Type = CellTypeFormula
			default:
				cell.Type = CellTypeOther
			}
			row.Cells = append(row.Cells, cell)
		}
		if len(row.Cells) > 0 {
			sh.Rows = append(sh.Rows, row)
		}
	}

	return sh, nil
}

// Save writes the dirty cells back into the workbook. Text cells go through
// excelize's shared-string table, which reuses existing entries, so the
// rest of the workbook is left as it was.
func (s *XLSXStore) Save(sh *Sheet, dirty []CellRef) error {
	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	for _, ref := range dirty {
		cell := sh.cell(ref)
		if cell == nil {
			continue
		}

		switch cell.Type {
		case CellTypeSharedString:
			text := ""
			if sh.Strings != nil {
				if i, err := strconv.Atoi(cell.Value); err == nil {
					text, _ = sh.Strings.Get(i)
				}
			}
			err = f.SetCellStr(sh.Name, ref.String(), text)
		case CellTypeInlineString:
			err = f.SetCellStr(sh.Name, ref.String(), cell.Value)
		default:
			err = f.SetCellValue(sh.Name, ref.String(), cell.Value)
		}
		if err != nil {
			return newDocumentError(s.path, "write cell "+ref.String(), err)
		}
	}

	if err := f.Save(); err != nil {
		return newDocumentError(s.path, "save", err)
	}
	return nil
}

func (s *XLSXStore) open() (*excelize.File, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newDocumentError(s.path, "open", ErrNotFound)
		}
		return nil, newDocumentError(s.path, "open", err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, newDocumentError(s.path, "open", err)
	}
	return f, nil
}

func (sh *Sheet) cell(ref CellRef) *Cell {
	for _, row := range sh.Rows {
		if row.Index == ref.Row {
			return row.Cell(ref.Column)
		}
	}
	return nil
}
