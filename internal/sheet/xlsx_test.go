package sheet

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func createWorkbook(t *testing.T, values [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range values {
		for j, value := range row {
			if value == nil {
				continue
			}
			name, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue("Sheet1", name, value); err != nil {
				t.Fatalf("Failed to set %s: %v", name, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test workbook: %v", err)
	}
	return path
}

func TestXLSXStore_Load(t *testing.T) {
	path := createWorkbook(t, [][]any{
		{"Source", "Target"},
		{"hello", nil, 42},
		{"hello", "world"},
	})

	doc, err := OpenFile(path, ReadOnly)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	if doc.SheetName() != "Sheet1" {
		t.Errorf("Expected sheet 'Sheet1', got %q", doc.SheetName())
	}
	if !doc.HasSharedStrings() {
		t.Fatal("Expected shared strings to be loaded")
	}
	if len(doc.Rows()) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(doc.Rows()))
	}

	if got := ReadText(doc, CellRef{Column: 1, Row: 2}); got != "hello" {
		t.Errorf("Expected 'hello', got %q", got)
	}
	if got := ReadText(doc, CellRef{Column: 2, Row: 3}); got != "world" {
		t.Errorf("Expected 'world', got %q", got)
	}
	if got := ReadText(doc, CellRef{Column: 3, Row: 2}); got != "" {
		t.Errorf("Expected numbers to read as empty text, got %q", got)
	}
	if cell := doc.Row(2).Cell(3); cell == nil || cell.Type != CellTypeNumber {
		t.Errorf("Expected a number cell at C2, got %+v", cell)
	}

	// "hello" appears twice but occupies one slot.
	if doc.SharedStrings().Len() != 4 {
		t.Errorf("Expected 4 distinct strings, got %d: %v", doc.SharedStrings().Len(), doc.SharedStrings().Items())
	}
}

func TestXLSXStore_SaveRoundTrip(t *testing.T) {
	path := createWorkbook(t, [][]any{
		{"Source", "Target"},
		{"hello"},
		{"world", nil, 7},
	})

	doc, err := OpenFile(path, ReadWrite)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if err := WriteText(doc, CellRef{Column: 2, Row: 2}, "bonjour"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if err := WriteText(doc, CellRef{Column: 2, Row: 3}, "monde"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if err := WriteText(doc, CellRef{Column: 2, Row: 5}, "hello"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if err := doc.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer f.Close()

	checks := map[string]string{
		"A1": "Source",
		"B2": "bonjour",
		"B3": "monde",
		"B5": "hello",
		"C3": "7",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("Sheet1", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) failed: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	typ, err := f.GetCellType("Sheet1", "B2")
	if err != nil {
		t.Fatalf("GetCellType failed: %v", err)
	}
	if typ != excelize.CellTypeSharedString {
		t.Errorf("Expected B2 to be a shared string, got %v", typ)
	}
}

func TestXLSXStore_Missing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.xlsx"), ReadOnly)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	var docErr *DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("Expected *DocumentError, got %T", err)
	}
	if docErr.Reason != "open" {
		t.Errorf("Expected reason 'open', got %q", docErr.Reason)
	}
}
