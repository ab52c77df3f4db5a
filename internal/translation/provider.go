package translation

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Provider defines the interface for translation backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// TranslateBatch translates texts in one call. The result has the same
	// length and order as texts.
	TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string, opts Options) ([]string, error)

	// ListGlossaries returns all glossaries known to the provider
	ListGlossaries(ctx context.Context) ([]RemoteGlossary, error)

	// CreateGlossary stores entries as a new glossary
	CreateGlossary(ctx context.Context, entries Glossary, name, sourceLang, targetLang string) (RemoteGlossary, error)

	// DeleteGlossary removes the glossary with the given id
	DeleteGlossary(ctx context.Context, id string) error

	// GlossaryEntries returns the entries of the glossary with the given id
	GlossaryEntries(ctx context.Context, id string) (Glossary, error)
}

// Formality is the register requested from the provider.
type Formality string

const (
	FormalityDefault    Formality = ""
	FormalityMore       Formality = "more"
	FormalityLess       Formality = "less"
	FormalityPreferMore Formality = "prefer_more"
	FormalityPreferLess Formality = "prefer_less"
)

// ParseFormality validates a formality name. The empty string selects the
// provider default.
func ParseFormality(s string) (Formality, bool) {
	switch f := Formality(strings.ToLower(strings.TrimSpace(s))); f {
	case FormalityDefault, FormalityMore, FormalityLess, FormalityPreferMore, FormalityPreferLess:
		return f, true
	default:
		return FormalityDefault, false
	}
}

// Options are attached to every TranslateBatch call of a run.
type Options struct {
	GlossaryID string
	Formality  Formality
}

// DefaultOptions returns the options for translating into targetLang.
// German targets ask for the formal register.
func DefaultOptions(targetLang, glossaryID string) Options {
	opts := Options{GlossaryID: glossaryID}
	if strings.EqualFold(baseLanguage(targetLang), "de") {
		opts.Formality = FormalityMore
	}
	return opts
}

// baseLanguage strips a region suffix: "en-US" -> "en".
func baseLanguage(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		return lang[:i]
	}
	return lang
}

// GlossaryEntry is a preferred translation for one source term.
type GlossaryEntry struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Glossary maps source terms to target terms.
type Glossary map[string]string

// Add inserts an entry. A source term that is already present is rejected
// and the existing entry is kept.
func (g Glossary) Add(source, target string) error {
	if _, ok := g[source]; ok {
		return &DuplicateTermError{Term: source}
	}
	g[source] = target
	return nil
}

// Entries returns the entries sorted by source term.
func (g Glossary) Entries() []GlossaryEntry {
	entries := make([]GlossaryEntry, 0, len(g))
	for source, target := range g {
		entries = append(entries, GlossaryEntry{Source: source, Target: target})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Source < entries[j].Source })
	return entries
}

// RemoteGlossary describes a glossary held by a provider.
type RemoteGlossary struct {
	ID         string
	Name       string
	SourceLang string
	TargetLang string
	EntryCount int
	Ready      bool
	CreatedAt  time.Time
}
