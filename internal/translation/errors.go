package translation

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAlreadyCached is returned when a cached text is stored again.
	ErrAlreadyCached = errors.New("translation already cached")

	// ErrGlossaryNotFound is returned for an unknown glossary id.
	ErrGlossaryNotFound = errors.New("glossary not found")
)

// ProviderError represents a failed call to a translation provider
type ProviderError struct {
	Provider string
	Status   int // HTTP-like status; 0 when the call never got a response
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, msg)
	}
	return e.Provider + ": " + msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the call may succeed: rate limits,
// server errors and failures without any response.
func (e *ProviderError) Temporary() bool {
	switch {
	case e.Status == 0:
		return !errors.Is(e.Err, ErrGlossaryNotFound)
	case e.Status == http.StatusTooManyRequests:
		return true
	case e.Status >= 500:
		return true
	default:
		return false
	}
}

// DuplicateTermError indicates a source term occurring twice in a glossary
type DuplicateTermError struct {
	Term string
}

func (e *DuplicateTermError) Error() string {
	return fmt.Sprintf("duplicate glossary term %q", e.Term)
}

// IsTemporary reports whether err is a provider error worth retrying.
func IsTemporary(err error) bool {
	var perr *ProviderError
	return errors.As(err, &perr) && perr.Temporary()
}
