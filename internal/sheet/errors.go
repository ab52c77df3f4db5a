package sheet

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the spreadsheet file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrNoSheet indicates the workbook contains no worksheet.
	ErrNoSheet = errors.New("workbook has no sheet")

	// ErrReadOnly indicates a write against a document opened for reading.
	ErrReadOnly = errors.New("document is read-only")
)

// DocumentError represents a failure to open, read or persist a spreadsheet.
type DocumentError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("document %q: %s", e.Path, e.Reason)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func newDocumentError(path, reason string, err error) *DocumentError {
	return &DocumentError{Path: path, Reason: reason, Err: err}
}
