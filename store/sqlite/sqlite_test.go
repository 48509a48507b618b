package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/cashflow-engine/generic"
	"github.com/warp/cashflow-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func planDoc(id, body string) generic.Document {
	return generic.Document{ID: generic.DocumentID(id), Name: "Plan " + id, Body: []byte(body)}
}

// =============================================================================
// APPEND-ONLY VERSIONING
// =============================================================================

func TestStore_AppendAndRead(t *testing.T) {
	// GIVEN: Two revisions of one plan
	// WHEN: Reading latest, a specific version and the history
	// THEN: Each read returns the right body

	store := newTestStore(t)
	ctx := context.Background()

	v1, err := store.Append(ctx, planDoc("home", `{"rev":1}`))
	require.NoError(t, err)
	assert.Equal(t, generic.Version(1), v1.Version)
	assert.False(t, v1.CreatedAt.IsZero())

	v2, err := store.Append(ctx, planDoc("home", `{"rev":2}`))
	require.NoError(t, err)
	assert.Equal(t, generic.Version(2), v2.Version)

	latest, err := store.Latest(ctx, "home")
	require.NoError(t, err)
	assert.JSONEq(t, `{"rev":2}`, string(latest.Body))
	assert.Equal(t, "Plan home", latest.Name)

	first, err := store.Version(ctx, "home", 1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rev":1}`, string(first.Body))

	history, err := store.Versions(ctx, "home")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, generic.Version(1), history[0].Version)
	assert.Equal(t, generic.Version(2), history[1].Version)
}

func TestStore_ExpectedVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, planDoc("home", `{}`))
	require.NoError(t, err)

	_, err = store.Append(ctx, generic.Document{ID: "home", Version: 1, Body: []byte(`{}`)})
	assert.ErrorIs(t, err, generic.ErrVersionConflict)
	var conflict *generic.VersionConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, generic.Version(1), conflict.Actual)

	doc, err := store.Append(ctx, generic.Document{ID: "home", Version: 2, Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, generic.Version(2), doc.Version)
}

func TestStore_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Latest(ctx, "missing")
	assert.ErrorIs(t, err, generic.ErrDocumentNotFound)

	_, err = store.Version(ctx, "missing", 3)
	assert.ErrorIs(t, err, generic.ErrDocumentNotFound)

	_, err = store.Versions(ctx, "missing")
	assert.ErrorIs(t, err, generic.ErrDocumentNotFound)
}

func TestStore_ListReturnsLatestPerPlan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"zeta", "alpha", "zeta", "zeta"} {
		_, err := store.Append(ctx, planDoc(id, `{}`))
		require.NoError(t, err)
	}

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, generic.DocumentID("alpha"), docs[0].ID)
	assert.Equal(t, generic.Version(1), docs[0].Version)
	assert.Equal(t, generic.DocumentID("zeta"), docs[1].ID)
	assert.Equal(t, generic.Version(3), docs[1].Version)
}

func TestStore_Reset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, planDoc("home", `{}`))
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	// Versions restart after a reset
	doc, err := store.Append(ctx, planDoc("home", `{}`))
	require.NoError(t, err)
	assert.Equal(t, generic.Version(1), doc.Version)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.db")
	ctx := context.Background()

	store, err := sqlite.New(path, zerolog.Nop())
	require.NoError(t, err)
	_, err = store.Append(ctx, planDoc("home", `{"kept":true}`))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := sqlite.New(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	doc, err := reopened.Latest(ctx, "home")
	require.NoError(t, err)
	assert.JSONEq(t, `{"kept":true}`, string(doc.Body))
}
