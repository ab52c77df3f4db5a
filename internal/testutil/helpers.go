package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/SimonOfHH/deepl-helper/internal/sheet"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateTestWorkbook writes values into the first sheet of a new xlsx file
// in a temporary directory and returns its path. Empty strings leave the
// cell unset.
func CreateTestWorkbook(t *testing.T, values [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range values {
		for j, value := range row {
			if value == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("Invalid coordinates %d:%d: %v", j+1, i+1, err)
			}
			if err := f.SetCellStr("Sheet1", name, value); err != nil {
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

// OpenMemoryDocument opens an in-memory document holding values as shared
// strings.
func OpenMemoryDocument(t *testing.T, values [][]string, mode sheet.Mode) (*sheet.Document, *sheet.MemoryStore) {
	t.Helper()

	store := sheet.NewMemoryStoreFromValues(values)
	doc, err := sheet.Open(store, mode)
	if err != nil {
		t.Fatalf("Failed to open memory document: %v", err)
	}
	return doc, store
}

// CellText reads the text of address from the first sheet of an xlsx file.
func CellText(t *testing.T, path, address string) string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	value, err := f.GetCellValue(f.GetSheetName(0), address)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", address, err)
	}
	return value
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}
