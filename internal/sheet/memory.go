package sheet

import "strconv"

// MemoryStore keeps a worksheet in memory. It backs tests and dry runs.
type MemoryStore struct {
	sheet *Sheet

	// LoadErr and SaveErr, when set, are returned by Load and Save.
	LoadErr error
	SaveErr error

	// Saves counts successful saves; LastDirty holds the cells of the last one.
	Saves     int
	LastDirty []CellRef
}

// NewMemoryStore creates a store holding s.
func NewMemoryStore(s *Sheet) *MemoryStore {
	if s.Name == "" {
		s.Name = "Sheet1"
	}
	return &MemoryStore{sheet: s}
}

// NewMemoryStoreFromValues builds a store whose row i and column j hold
// values[i][j] as a shared string. Empty values leave the cell out.
func NewMemoryStoreFromValues(values [][]string) *MemoryStore {
	sh := &Sheet{Name: "Sheet1", Strings: NewSharedStrings()}
	for i, rowValues := range values {
		row := &Row{Index: i + 1}
		for j, value := range rowValues {
			if value == "" {
				continue
			}
			row.Cells = append(row.Cells, &Cell{
				Ref:   CellRef{Column: j + 1, Row: i + 1},
				Type:  CellTypeSharedString,
				Value: strconv.Itoa(sh.Strings.Add(value)),
			})
		}
		sh.Rows = append(sh.Rows, row)
	}
	return &MemoryStore{sheet: sh}
}

// Path returns a fixed identifier.
func (m *MemoryStore) Path() string {
	return "memory:" + m.sheet.Name
}

// Load returns a copy of the stored worksheet.
func (m *MemoryStore) Load() (*Sheet, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.sheet.clone(), nil
}

// Save replaces the stored worksheet with a copy of s.
func (m *MemoryStore) Save(s *Sheet, dirty []CellRef) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.sheet = s.clone()
	m.Saves++
	m.LastDirty = append([]CellRef(nil), dirty...)
	return nil
}

// Sheet returns the stored worksheet.
func (m *MemoryStore) Sheet() *Sheet {
	return m.sheet
}

func (sh *Sheet) clone() *Sheet {
	out := &Sheet{Name: sh.Name}
	if sh.Strings != nil {
		out.Strings = NewSharedStrings(sh.Strings.Items()...)
	}
	for _, row := range sh.Rows {
		r := &Row{Index: row.Index, Cells: make([]*Cell, 0, len(row.Cells))}
		for _, cell := range row.Cells {
			c := *cell
			r.Cells = append(r.Cells, &c)
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}
