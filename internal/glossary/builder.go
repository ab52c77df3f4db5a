package glossary

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SimonOfHH/deepl-helper/internal/logging"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

// ErrEmptyGlossary is returned when creating a glossary without entries.
var ErrEmptyGlossary = errors.New("glossary has no entries")

// Builder manages the glossaries of a provider
type Builder struct {
	provider translation.Provider
	log      *slog.Logger
}

// NewBuilder creates a builder for provider. A nil logger means
// slog.Default().
func NewBuilder(provider translation.Provider, log *slog.Logger) *Builder {
	return &Builder{provider: provider, log: log}
}

// Create submits g as a new glossary.
func (b *Builder) Create(ctx context.Context, g translation.Glossary, name, sourceLang, targetLang string) (translation.RemoteGlossary, error) {
	if len(g) == 0 {
		return translation.RemoteGlossary{}, ErrEmptyGlossary
	}

	remote, err := b.provider.CreateGlossary(ctx, g, name, sourceLang, targetLang)
	if err != nil {
		return translation.RemoteGlossary{}, err
	}
	logging.FromContext(ctx, b.log).Info("glossary created",
		"id", remote.ID, "name", remote.Name, "entries", remote.EntryCount)
	return remote, nil
}

// List returns all glossaries of the provider; never nil.
func (b *Builder) List(ctx context.Context) ([]translation.RemoteGlossary, error) {
	list, err := b.provider.ListGlossaries(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []translation.RemoteGlossary{}
	}
	return list, nil
}

// Delete removes the glossary with id. Unknown ids are reported by the
// provider.
func (b *Builder) Delete(ctx context.Context, id string) error {
	if err := b.provider.DeleteGlossary(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx, b.log).Info("glossary deleted", "id", id)
	return nil
}

// Entries returns the entries of the glossary with id.
func (b *Builder) Entries(ctx context.Context, id string) (translation.Glossary, error) {
	return b.provider.GlossaryEntries(ctx, id)
}
