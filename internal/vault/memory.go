package vault

import (
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory vault for tests. Writes bump the stored
// modification timestamp; SetModTime allows tests to control staleness
// directly.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]memoryDoc
}

type memoryDoc struct {
	text    string
	modTime time.Time
}

// NewMemory creates an empty in-memory vault.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]memoryDoc)}
}

// Read returns the document's text.
func (v *Memory) Read(id string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	doc, ok := v.docs[id]
	if !ok {
		return "", ErrNotFound
	}
	return doc.text, nil
}

// Write replaces the document's text and advances its modification time.
func (v *Memory) Write(id, text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	prev := v.docs[id].modTime
	now := time.Now()
	if !now.After(prev) {
		// Guarantee a visible mtime change even for rapid writes.
		now = prev.Add(time.Millisecond)
	}
	v.docs[id] = memoryDoc{text: text, modTime: now}
	return nil
}

// Delete removes a document.
func (v *Memory) Delete(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.docs, id)
}

// ModTime returns the document's stored modification time.
func (v *Memory) ModTime(id string) (time.Time, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	doc, ok := v.docs[id]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return doc.modTime, nil
}

// SetModTime overrides a document's modification time.
func (v *Memory) SetModTime(id string, t time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if doc, ok := v.docs[id]; ok {
		doc.modTime = t
		v.docs[id] = doc
	}
}

// List enumerates documents in sorted order.
func (v *Memory) List() ([]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]string, 0, len(v.docs))
	for id := range v.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
