package sheet

import (
	"sort"
)

// CellType describes how a cell stores its value.
type CellType int

const (
	CellTypeOther CellType = iota
	CellTypeSharedString
	CellTypeInlineString
	CellTypeNumber
	CellTypeBool
	CellTypeFormula
)

// Cell is a single cell. For CellTypeSharedString, Value is the decimal
// index into the document's shared-string pool.
type Cell struct {
	Ref   CellRef
	Type  CellType
	Value string
}

// Row holds the cells of one row ordered by column.
type Row struct {
	Index int
	Cells []*Cell
}

// Cell returns the cell in the given column, or nil.
func (r *Row) Cell(column int) *Cell {
	i := sort.Search(len(r.Cells), func(i int) bool {
		return r.Cells[i].Ref.Column >= column
	})
	if i < len(r.Cells) && r.Cells[i].Ref.Column == column {
		return r.Cells[i]
	}
	return nil
}

// ensureCell returns the cell in column, inserting an empty one at its
// ordered position when missing.
func (r *Row) ensureCell(column int) *Cell {
	i := sort.Search(len(r.Cells), func(i int) bool {
		return r.Cells[i].Ref.Column >= column
	})
	if i < len(r.Cells) && r.Cells[i].Ref.Column == column {
		return r.Cells[i]
	}

	cell := &Cell{Ref: CellRef{Column: column, Row: r.Index}}
	r.Cells = append(r.Cells, nil)
	copy(r.Cells[i+1:], r.Cells[i:])
	r.Cells[i] = cell
	return cell
}

// Sheet is the loaded content of a worksheet. Strings is nil when the
// workbook has no shared-string part.
type Sheet struct {
	Name    string
	Strings *SharedStrings
	Rows    []*Row
}

// Store loads and persists a single worksheet.
type Store interface {
	// Path identifies the backing storage in errors and logs.
	Path() string

	// Load reads the first worksheet.
	Load() (*Sheet, error)

	// Save persists the cells listed in dirty.
	Save(s *Sheet, dirty []CellRef) error
}

// Mode selects whether a document may be written.
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

// Document is an opened worksheet. It is owned by a single writer and is
// not safe for concurrent use.
type Document struct {
	store Store
	mode  Mode
	sheet *Sheet
	dirty map[CellRef]struct{}
	saves int
}

// Open loads the worksheet from store.
func Open(store Store, mode Mode) (*Document, error) {
	s, err := store.Load()
	if err != nil {
		return nil, err
	}
	sort.Slice(s.Rows, func(i, j int) bool { return s.Rows[i].Index < s.Rows[j].Index })
	for _, row := range s.Rows {
		sort.Slice(row.Cells, func(i, j int) bool { return row.Cells[i].Ref.Column < row.Cells[j].Ref.Column })
	}

	return &Document{
		store: store,
		mode:  mode,
		sheet: s,
		dirty: make(map[CellRef]struct{}),
	}, nil
}

// OpenFile opens the first worksheet of an xlsx file.
func OpenFile(path string, mode Mode) (*Document, error) {
	return Open(NewXLSXStore(path), mode)
}

// Path returns the backing storage path.
func (d *Document) Path() string {
	return d.store.Path()
}

// SheetName returns the name of the loaded worksheet.
func (d *Document) SheetName() string {
	return d.sheet.Name
}

// Rows returns the rows in ascending index order.
func (d *Document) Rows() []*Row {
	return d.sheet.Rows
}

// Row returns the row with the given index, or nil.
func (d *Document) Row(index int) *Row {
	rows := d.sheet.Rows
	i := sort.Search(len(rows), func(i int) bool { return rows[i].Index >= index })
	if i < len(rows) && rows[i].Index == index {
		return rows[i]
	}
	return nil
}

// HasSharedStrings reports whether the document has a shared-string pool.
func (d *Document) HasSharedStrings() bool {
	return d.sheet.Strings != nil
}

// SharedStrings returns the pool, or nil when the document has none.
func (d *Document) SharedStrings() *SharedStrings {
	return d.sheet.Strings
}

// Dirty returns the cells modified since the last save, ordered by row
// then column.
func (d *Document) Dirty() []CellRef {
	refs := make([]CellRef, 0, len(d.dirty))
	for ref := range d.dirty {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Row != refs[j].Row {
			return refs[i].Row < refs[j].Row
		}
		return refs[i].Column < refs[j].Column
	})
	return refs
}

// Saves returns how often the document has been persisted.
func (d *Document) Saves() int {
	return d.saves
}

// Save persists all modified cells.
func (d *Document) Save() error {
	if d.mode != ReadWrite {
		return newDocumentError(d.Path(), "save", ErrReadOnly)
	}
	if err := d.store.Save(d.sheet, d.Dirty()); err != nil {
		return err
	}
	d.dirty = make(map[CellRef]struct{})
	d.saves++
	return nil
}

// ensureRow returns the row with index, inserting it in order when missing.
func (d *Document) ensureRow(index int) *Row {
	rows := d.sheet.Rows
	i := sort.Search(len(rows), func(i int) bool { return rows[i].Index >= index })
	if i < len(rows) && rows[i].Index == index {
		return rows[i]
	}

	row := &Row{Index: index}
	d.sheet.Rows = append(d.sheet.Rows, nil)
	copy(d.sheet.Rows[i+1:], d.sheet.Rows[i:])
	d.sheet.Rows[i] = row
	return row
}

func (d *Document) ensureStrings() *SharedStrings {
	if d.sheet.Strings == nil {
		d.sheet.Strings = NewSharedStrings()
	}
	return d.sheet.Strings
}
