package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FS is a filesystem-backed vault rooted at a directory. Dot-directories
// (including .lapse) are skipped during enumeration.
type FS struct {
	root string
}

// NewFS creates a filesystem vault rooted at the given directory.
func NewFS(root string) (*FS, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", root)
	}
	return &FS{root: root}, nil
}

// Root returns the vault's root directory.
func (v *FS) Root() string { return v.root }

// Read returns the document's full text.
func (v *FS) Read(id string) (string, error) {
	data, err := os.ReadFile(v.abs(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading %s: %w", id, err)
	}
	return string(data), nil
}

// Write atomically replaces the document's text: write to a temp file in
// the same directory, then rename over the target.
func (v *FS) Write(id, text string) error {
	path := v.abs(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directories for %s: %w", id, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing temp file for %s: %w", id, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file for %s: %w", id, err)
	}
	return nil
}

// ModTime returns the document's last-modification timestamp.
func (v *FS) ModTime(id string) (time.Time, error) {
	info, err := os.Stat(v.abs(id))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("stat %s: %w", id, err)
	}
	return info.ModTime(), nil
}

// List walks the vault for markdown documents.
func (v *FS) List() ([]string, error) {
	var ids []string
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A directory that vanished mid-walk is not fatal to
			// the enumeration.
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != v.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}
		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return nil
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking vault: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// abs resolves a document ID to an absolute path.
func (v *FS) abs(id string) string {
	return filepath.Join(v.root, filepath.FromSlash(id))
}
