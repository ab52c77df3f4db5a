package testutil

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

// TranslateCall records one TranslateBatch invocation.
type TranslateCall struct {
	Texts      []string
	SourceLang string
	TargetLang string
	Options    translation.Options
}

// MockProvider is an in-memory translation.Provider that records calls.
type MockProvider struct {
	// Translations maps source text to its translation. Texts without an
	// entry translate to "mock translation of <text>".
	Translations map[string]string

	// TranslateErrs are returned by successive TranslateBatch calls; a nil
	// element lets that call succeed.
	TranslateErrs []error

	// Err, when set, fails every glossary call.
	Err error

	// ShortResult drops the last translation from every result.
	ShortResult bool

	Calls      []TranslateCall
	Glossaries map[string]translation.RemoteGlossary
	Entries    map[string]translation.Glossary
	Deleted    []string

	nextID int
}

// NewMockProvider creates a provider translating with translations.
func NewMockProvider(translations map[string]string) *MockProvider {
	return &MockProvider{
		Translations: translations,
		Glossaries:   make(map[string]translation.RemoteGlossary),
		Entries:      make(map[string]translation.Glossary),
	}
}

// Name returns "mock".
func (m *MockProvider) Name() string {
	return "mock"
}

// TranslateBatch mocks a batch translation.
func (m *MockProvider) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string, opts translation.Options) ([]string, error) {
	m.Calls = append(m.Calls, TranslateCall{
		Texts:      append([]string(nil), texts...),
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Options:    opts,
	})

	if n := len(m.Calls) - 1; n < len(m.TranslateErrs) && m.TranslateErrs[n] != nil {
		return nil, m.TranslateErrs[n]
	}

	out := make([]string, 0, len(texts))
	for _, text := range texts {
		if tr, ok := m.Translations[text]; ok {
			out = append(out, tr)
		} else {
			out = append(out, fmt.Sprintf("mock translation of %s", text))
		}
	}
	if m.ShortResult && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// ListGlossaries returns the stored glossaries ordered by id.
func (m *MockProvider) ListGlossaries(ctx context.Context) ([]translation.RemoteGlossary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	ids := make([]string, 0, len(m.Glossaries))
	for id := range m.Glossaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []translation.RemoteGlossary
	for _, id := range ids {
		out = append(out, m.Glossaries[id])
	}
	return out, nil
}

// CreateGlossary stores a copy of entries.
func (m *MockProvider) CreateGlossary(ctx context.Context, entries translation.Glossary, name, sourceLang, targetLang string) (translation.RemoteGlossary, error) {
	if m.Err != nil {
		return translation.RemoteGlossary{}, m.Err
	}
	m.nextID++
	g := translation.RemoteGlossary{
		ID:         "glossary-" + strconv.Itoa(m.nextID),
		Name:       name,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		EntryCount: len(entries),
		Ready:      true,
		CreatedAt:  time.Now(),
	}
	stored := make(translation.Glossary, len(entries))
	for k, v := range entries {
		stored[k] = v
	}
	m.Glossaries[g.ID] = g
	m.Entries[g.ID] = stored
	return g, nil
}

// DeleteGlossary removes a glossary; unknown ids fail like a 404.
func (m *MockProvider) DeleteGlossary(ctx context.Context, id string) error {
	m.Deleted = append(m.Deleted, id)
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Glossaries[id]; !ok {
		return &translation.ProviderError{Provider: "mock", Status: 404, Message: "glossary not found", Err: translation.ErrGlossaryNotFound}
	}
	delete(m.Glossaries, id)
	delete(m.Entries, id)
	return nil
}

// GlossaryEntries returns the stored entries.
func (m *MockProvider) GlossaryEntries(ctx context.Context, id string) (translation.Glossary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	entries, ok := m.Entries[id]
	if !ok {
		return nil, &translation.ProviderError{Provider: "mock", Status: 404, Message: "glossary not found", Err: translation.ErrGlossaryNotFound}
	}
	return entries, nil
}
