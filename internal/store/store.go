// Package store holds the in-memory time data for documents that are
// currently open. It is the authoritative state for those documents; the
// mtime cache covers everything else. The two containers are intentionally
// not unified: an open document and the same document seen during a corpus
// scan may disagree until the next write-through invalidation.
package store

import (
	"sort"
	"sync"

	"github.com/hpungsan/lapse/internal/timedata"
)

// Store maps document IDs to their parsed time data. It has no persistence
// of its own; serialization is the codec's job, triggered by the caller.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*timedata.DocumentTimeData
}

// New creates an empty store.
func New() *Store {
	return &Store{docs: make(map[string]*timedata.DocumentTimeData)}
}

// Get returns the document's data, or nil when the document is not held.
func (s *Store) Get(id string) *timedata.DocumentTimeData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[id]
}

// GetOrCreate returns the document's data, inserting an empty record when
// the document is not yet held.
func (s *Store) GetOrCreate(id string) *timedata.DocumentTimeData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data, ok := s.docs[id]; ok {
		return data
	}
	data := &timedata.DocumentTimeData{}
	s.docs[id] = data
	return data
}

// Replace installs data wholesale for the document, as the codec does on
// every re-parse.
func (s *Store) Replace(id string, data *timedata.DocumentTimeData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = data
}

// Delete drops the document from the store (document closed, deleted, or
// renamed away).
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
}

// Rename moves a record to a new ID, preserving its data.
func (s *Store) Rename(oldID, newID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data, ok := s.docs[oldID]; ok {
		delete(s.docs, oldID)
		s.docs[newID] = data
	}
}

// IDs returns the held document IDs in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of held documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
