/*
Package sqlite provides a SQLite-backed implementation of generic.Store.

PURPOSE:
  Persists every revision of every plan document so that any engine result
  can be reproduced against the exact plan it was computed from.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on plan_versions
  - No DELETE statements except Reset (demo scenarios)
  - Edits create a new version row

KEY TABLES:
  plan_versions: (plan_id, version) -> name, body_json, created_at

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking. The
  version check and insert run in one SQL transaction; the primary key
  backs the optimistic check if two processes share the file.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/cashflow.db", logger)
  if err != nil {
      log.Fatal().Err(err).Msg("open store")
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definition
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/warp/cashflow-engine/generic"
)

// Store implements generic.ResettableStore using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	log zerolog.Logger
	now func() time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{
		db:  db,
		log: logger.With().Str("component", "sqlite").Logger(),
		now: time.Now,
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	store.log.Info().Str("path", dbPath).Msg("plan store ready")
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Plan revisions (append-only)
	CREATE TABLE IF NOT EXISTS plan_versions (
		plan_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		name TEXT NOT NULL,
		body_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (plan_id, version)
	);

	-- Latest-revision lookups walk the key backwards
	CREATE INDEX IF NOT EXISTS idx_plan_versions_latest
		ON plan_versions(plan_id, version DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DOCUMENT STORE (generic.Store interface)
// =============================================================================

// Append writes a new revision of a plan document.
func (s *Store) Append(ctx context.Context, doc generic.Document) (generic.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return generic.Document{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	var latest sql.NullInt64
	if err := sqlTx.QueryRowContext(ctx,
		"SELECT MAX(version) FROM plan_versions WHERE plan_id = ?", doc.ID,
	).Scan(&latest); err != nil {
		return generic.Document{}, fmt.Errorf("failed to read latest version: %w", err)
	}

	next, err := generic.NextVersion(doc.ID, doc.Version, generic.Version(latest.Int64))
	if err != nil {
		s.log.Warn().Str("plan_id", string(doc.ID)).Int("expected", int(doc.Version)).
			Int64("latest", latest.Int64).Msg("version conflict")
		return generic.Document{}, err
	}

	doc.Version = next
	doc.CreatedAt = s.now().UTC().Truncate(time.Second)

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO plan_versions (plan_id, version, name, body_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, doc.ID, doc.Version, doc.Name, string(doc.Body), doc.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.Document{}, &generic.VersionConflictError{ID: doc.ID, Expected: next, Actual: next}
		}
		return generic.Document{}, fmt.Errorf("failed to append plan version: %w", err)
	}

	if err := sqlTx.Commit(); err != nil {
		return generic.Document{}, fmt.Errorf("failed to commit plan version: %w", err)
	}

	s.log.Debug().Str("plan_id", string(doc.ID)).Int("version", int(doc.Version)).Msg("plan version appended")
	return doc, nil
}

// Latest returns the newest revision of a plan.
func (s *Store) Latest(ctx context.Context, id generic.DocumentID) (generic.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT plan_id, version, name, body_json, created_at
		FROM plan_versions
		WHERE plan_id = ?
		ORDER BY version DESC
		LIMIT 1
	`, id)
	return scanDocument(row)
}

// Version returns one specific revision.
func (s *Store) Version(ctx context.Context, id generic.DocumentID, v generic.Version) (generic.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT plan_id, version, name, body_json, created_at
		FROM plan_versions
		WHERE plan_id = ? AND version = ?
	`, id, v)
	return scanDocument(row)
}

// Versions returns every revision of a plan, oldest first.
func (s *Store) Versions(ctx context.Context, id generic.DocumentID) ([]generic.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.queryDocuments(ctx, `
		SELECT plan_id, version, name, body_json, created_at
		FROM plan_versions
		WHERE plan_id = ?
		ORDER BY version ASC
	`, id)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, generic.ErrDocumentNotFound
	}
	return docs, nil
}

// List returns the latest revision of every plan, ordered by id.
func (s *Store) List(ctx context.Context) ([]generic.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryDocuments(ctx, `
		SELECT v.plan_id, v.version, v.name, v.body_json, v.created_at
		FROM plan_versions v
		JOIN (
			SELECT plan_id, MAX(version) AS version
			FROM plan_versions
			GROUP BY plan_id
		) latest ON latest.plan_id = v.plan_id AND latest.version = v.version
		ORDER BY v.plan_id ASC
	`)
}

func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]generic.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan versions: %w", err)
	}
	defer rows.Close()

	docs := []generic.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (generic.Document, error) {
	var (
		doc       generic.Document
		body      string
		createdAt string
	)
	err := row.Scan(&doc.ID, &doc.Version, &doc.Name, &body, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.Document{}, generic.ErrDocumentNotFound
	}
	if err != nil {
		return generic.Document{}, fmt.Errorf("failed to scan plan version: %w", err)
	}

	doc.Body = []byte(body)
	doc.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return doc, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM plan_versions"); err != nil {
		return err
	}
	s.log.Info().Msg("plan store reset")
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY"))
}

var _ generic.ResettableStore = (*Store)(nil)
