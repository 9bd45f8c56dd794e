// Package cardstore persists card records and their saved effect state in
// a local SQLite database.
package cardstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"holocard-renderer/internal/card"
)

// ErrNotFound is returned for an unknown card id.
var ErrNotFound = errors.New("cardstore: card not found")

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    rarity TEXT NOT NULL DEFAULT '',
    image_ref TEXT NOT NULL DEFAULT '',
    design_metadata TEXT,              -- opaque JSON owned by the editor
    updated_at INTEGER NOT NULL        -- UnixNano
);

CREATE INDEX IF NOT EXISTS idx_cards_updated ON cards(updated_at);
`

// Store is a SQLite-backed card repository. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("cardstore: create directory: %w", err)
		}
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cardstore: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cardstore: connect %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cardstore: create schema: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	var current int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("cardstore: read schema version: %w", err)
	}
	if current == schemaVersion {
		return nil
	}
	log.Printf("[CARDSTORE] Migrating schema from version %d to %d", current, schemaVersion)
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("cardstore: reset schema version: %w", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("cardstore: write schema version: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces a record.
func (s *Store) Put(ctx context.Context, r card.Record) error {
	if r.ID == "" {
		return fmt.Errorf("cardstore: put: empty id")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (id, title, rarity, image_ref, design_metadata, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			rarity = excluded.rarity,
			image_ref = excluded.image_ref,
			design_metadata = excluded.design_metadata,
			updated_at = excluded.updated_at`,
		r.ID, r.Title, r.Rarity, r.ImageRef, nullable(r.DesignMetadata), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("cardstore: put %s: %w", r.ID, err)
	}
	return nil
}

// Get loads one record.
func (s *Store) Get(ctx context.Context, id string) (card.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, rarity, image_ref, design_metadata FROM cards WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return card.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return card.Record{}, fmt.Errorf("cardstore: get %s: %w", id, err)
	}
	return r, nil
}

// List returns every record ordered by id.
func (s *Store) List(ctx context.Context) ([]card.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, rarity, image_ref, design_metadata FROM cards ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("cardstore: list: %w", err)
	}
	defer rows.Close()

	var out []card.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("cardstore: list: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cardstore: list: %w", err)
	}
	return out, nil
}

// Delete removes a record. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cards WHERE id = ?", id); err != nil {
		return fmt.Errorf("cardstore: delete %s: %w", id, err)
	}
	return nil
}

// SaveEffectState writes st into the design metadata of card id, keeping
// the metadata's other keys.
func (s *Store) SaveEffectState(ctx context.Context, id string, st card.EffectState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cardstore: save state %s: %w", id, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, title, rarity, image_ref, design_metadata FROM cards WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("cardstore: save state %s: %w", id, err)
	}
	r, err = r.WithEffectState(st)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE cards SET design_metadata = ?, updated_at = ? WHERE id = ?",
		string(r.DesignMetadata), time.Now().UnixNano(), id); err != nil {
		return fmt.Errorf("cardstore: save state %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cardstore: save state %s: %w", id, err)
	}
	return nil
}

// SetImage replaces the image reference of card id.
func (s *Store) SetImage(ctx context.Context, id, ref string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cards SET image_ref = ?, updated_at = ? WHERE id = ?", ref, time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("cardstore: set image %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (card.Record, error) {
	var r card.Record
	var meta sql.NullString
	if err := sc.Scan(&r.ID, &r.Title, &r.Rarity, &r.ImageRef, &meta); err != nil {
		return card.Record{}, err
	}
	if meta.Valid && meta.String != "" {
		r.DesignMetadata = []byte(meta.String)
	}
	return r, nil
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
