// Package vault abstracts the document corpus the engine reads and writes.
// A document ID is its slash-separated path relative to the vault root.
package vault

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Vault provides the host-application primitives the core depends on:
// content reads and writes, modification-timestamp stats, and corpus
// enumeration.
type Vault interface {
	// Read returns the document's full text.
	Read(id string) (string, error)

	// Write replaces the document's full text, creating it if needed.
	Write(id, text string) error

	// ModTime returns the document's last-modification timestamp without
	// reading its content.
	ModTime(id string) (time.Time, error)

	// List enumerates every markdown document, as sorted relative slash
	// paths. Iteration order is stable within one run; consumers must
	// not rely on it for correctness.
	List() ([]string, error)
}
