// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/cashflow-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	documents map[generic.DocumentID][]generic.Document
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		documents: make(map[generic.DocumentID][]generic.Document),
		now:       time.Now,
	}
}

// Append adds a new revision. Append-only.
func (m *Memory) Append(_ context.Context, doc generic.Document) (generic.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	revisions := m.documents[doc.ID]
	latest := generic.Version(len(revisions))
	next, err := generic.NextVersion(doc.ID, doc.Version, latest)
	if err != nil {
		return generic.Document{}, err
	}

	doc.Version = next
	doc.CreatedAt = m.now().UTC()
	doc.Body = append([]byte(nil), doc.Body...)
	m.documents[doc.ID] = append(revisions, doc)
	return doc, nil
}

func (m *Memory) Latest(_ context.Context, id generic.DocumentID) (generic.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	revisions := m.documents[id]
	if len(revisions) == 0 {
		return generic.Document{}, generic.ErrDocumentNotFound
	}
	return revisions[len(revisions)-1], nil
}

func (m *Memory) Version(_ context.Context, id generic.DocumentID, v generic.Version) (generic.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	revisions := m.documents[id]
	if v < 1 || int(v) > len(revisions) {
		return generic.Document{}, generic.ErrDocumentNotFound
	}
	return revisions[v-1], nil
}

func (m *Memory) Versions(_ context.Context, id generic.DocumentID) ([]generic.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	revisions := m.documents[id]
	if len(revisions) == 0 {
		return nil, generic.ErrDocumentNotFound
	}
	result := make([]generic.Document, len(revisions))
	copy(result, revisions)
	return result, nil
}

func (m *Memory) List(_ context.Context) ([]generic.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.Document, 0, len(m.documents))
	for _, revisions := range m.documents {
		result = append(result, revisions[len(revisions)-1])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Reset drops every document.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = make(map[generic.DocumentID][]generic.Document)
	return nil
}

var _ generic.ResettableStore = (*Memory)(nil)
