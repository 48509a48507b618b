/*
store.go - Persistence interface for versioned plan documents

PURPOSE:
  Plans are edited by the surrounding application and evaluated by the
  engine. The store keeps every saved revision so an evaluation can always be
  reproduced against the exact plan it was computed from.

APPEND-ONLY CONTRACT:
  - Append(): writes a new version; earlier versions are never rewritten
  - NO Update() method exists
  - Delete is only available through Reset (dev/demo scenarios)

OPTIMISTIC LOCKING:
  A caller may set Document.Version to the version it expects to create.
  If another writer got there first, Append fails with VersionConflictError.
  Version 0 means "whatever comes next".

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - errors.go: ErrDocumentNotFound, ErrVersionConflict
  - factory/plan.go: Encodes/decodes Document.Body
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// DOCUMENT - One stored revision of a plan
// =============================================================================

// Document is a single immutable revision of a stored plan.
type Document struct {
	ID        DocumentID
	Name      string
	Version   Version
	Body      []byte // JSON plan document
	CreatedAt time.Time
}

// =============================================================================
// STORE - Interface for document persistence (append-only)
// =============================================================================

// Store handles persistence of plan documents.
type Store interface {
	// Append persists a new revision and returns it with Version and
	// CreatedAt filled in.
	Append(ctx context.Context, doc Document) (Document, error)

	// Latest returns the newest revision of a document.
	Latest(ctx context.Context, id DocumentID) (Document, error)

	// Version returns one specific revision.
	Version(ctx context.Context, id DocumentID, v Version) (Document, error)

	// Versions returns every revision of a document, oldest first.
	Versions(ctx context.Context, id DocumentID) ([]Document, error)

	// List returns the latest revision of every document, ordered by ID.
	List(ctx context.Context) ([]Document, error)
}

// ResettableStore can drop all documents. Used by demo scenarios only.
type ResettableStore interface {
	Store
	Reset(ctx context.Context) error
}

// NextVersion validates an expected version against the latest one and
// returns the version the new revision must carry.
func NextVersion(id DocumentID, expected, latest Version) (Version, error) {
	next := latest + 1
	if expected != 0 && expected != next {
		return 0, &VersionConflictError{ID: id, Expected: expected, Actual: latest}
	}
	return next, nil
}
