// Package glossarydb keeps glossaries in a local SQLite database for
// providers that have no glossary storage of their own.
package glossarydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

const schema = `
CREATE TABLE IF NOT EXISTS glossaries (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	source_lang TEXT NOT NULL,
	target_lang TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS glossary_entries (
	glossary_id TEXT NOT NULL,
	source      TEXT NOT NULL,
	target      TEXT NOT NULL,
	PRIMARY KEY (glossary_id, source)
);`

// Store implements the glossary half of translation.Provider on SQLite.
// Errors are reported as *translation.ProviderError under the owning
// provider's name.
type Store struct {
	db       *sql.DB
	provider string
}

// DefaultPath returns the database location under the user's state
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "glossaries.db"
	}
	return filepath.Join(home, ".local", "state", "deepl-helper", "glossaries.db")
}

// Open opens or creates the database at path. ":memory:" keeps it in
// memory for the lifetime of the store.
func Open(path, provider string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create glossary directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open glossary database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise glossary database: %w", err)
	}

	return &Store{db: db, provider: provider}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListGlossaries returns all stored glossaries, oldest first.
func (s *Store) ListGlossaries(ctx context.Context) ([]translation.RemoteGlossary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.source_lang, g.target_lang, g.created_at,
		       (SELECT COUNT(*) FROM glossary_entries e WHERE e.glossary_id = g.id)
		FROM glossaries g
		ORDER BY g.created_at, g.id`)
	if err != nil {
		return nil, s.wrap(err)
	}
	defer rows.Close()

	out := []translation.RemoteGlossary{}
	for rows.Next() {
		var g translation.RemoteGlossary
		var created int64
		if err := rows.Scan(&g.ID, &g.Name, &g.SourceLang, &g.TargetLang, &created, &g.EntryCount); err != nil {
			return nil, s.wrap(err)
		}
		g.CreatedAt = time.Unix(created, 0).UTC()
		g.Ready = true
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap(err)
	}
	return out, nil
}

// CreateGlossary stores entries under a new id.
func (s *Store) CreateGlossary(ctx context.Context, entries translation.Glossary, name, sourceLang, targetLang string) (translation.RemoteGlossary, error) {
	g := translation.RemoteGlossary{
		ID:         uuid.NewString(),
		Name:       name,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		EntryCount: len(entries),
		Ready:      true,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translation.RemoteGlossary{}, s.wrap(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO glossaries (id, name, source_lang, target_lang, created_at) VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.SourceLang, g.TargetLang, g.CreatedAt.Unix()); err != nil {
		return translation.RemoteGlossary{}, s.wrap(err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO glossary_entries (glossary_id, source, target) VALUES (?, ?, ?)`)
	if err != nil {
		return translation.RemoteGlossary{}, s.wrap(err)
	}
	defer stmt.Close()

	for _, e := range entries.Entries() {
		if _, err := stmt.ExecContext(ctx, g.ID, e.Source, e.Target); err != nil {
			return translation.RemoteGlossary{}, s.wrap(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return translation.RemoteGlossary{}, s.wrap(err)
	}
	return g, nil
}

// DeleteGlossary removes a glossary and its entries.
func (s *Store) DeleteGlossary(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM glossaries WHERE id = ?`, id)
	if err != nil {
		return s.wrap(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return s.wrap(fmt.Errorf("%w: %s", translation.ErrGlossaryNotFound, id))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM glossary_entries WHERE glossary_id = ?`, id); err != nil {
		return s.wrap(err)
	}
	return s.wrap(tx.Commit())
}

// GlossaryEntries returns the entries of a glossary.
func (s *Store) GlossaryEntries(ctx context.Context, id string) (translation.Glossary, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM glossaries WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.wrap(fmt.Errorf("%w: %s", translation.ErrGlossaryNotFound, id))
	}
	if err != nil {
		return nil, s.wrap(err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT source, target FROM glossary_entries WHERE glossary_id = ?`, id)
	if err != nil {
		return nil, s.wrap(err)
	}
	defer rows.Close()

	g := translation.Glossary{}
	for rows.Next() {
		var source, target string
		if err := rows.Scan(&source, &target); err != nil {
			return nil, s.wrap(err)
		}
		g[source] = target
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap(err)
	}
	return g, nil
}

func (s *Store) wrap(err error) error {
	if err == nil {
		return nil
	}
	perr := &translation.ProviderError{Provider: s.provider, Err: err}
	if errors.Is(err, translation.ErrGlossaryNotFound) {
		perr.Status = 404
	}
	return perr
}
