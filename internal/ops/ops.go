// Package ops implements the operations shared by the CLI and the MCP
// server. Each operation takes an Input struct and returns an Output struct;
// validation failures surface as structured errors from internal/errors.
package ops

import (
	"strings"

	"github.com/hpungsan/lapse/internal/cache"
	"github.com/hpungsan/lapse/internal/config"
	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/query"
	"github.com/hpungsan/lapse/internal/store"
	"github.com/hpungsan/lapse/internal/vault"
)

// Env bundles the long-lived state operations run against: the vault, the
// mtime cache over it, the open-document store, and configuration. One Env
// lives for the whole process; Close drains the cache's pending snapshot
// writes.
type Env struct {
	Vault  vault.Vault
	Cache  *cache.MtimeCache
	Store  *store.Store
	Config *config.Config
	Clock  query.Clock
}

// NewEnv wires an environment over the given vault. database may be nil for
// a memory-only cache.
func NewEnv(vlt vault.Vault, c *cache.MtimeCache, cfg *config.Config) *Env {
	return &Env{
		Vault:  vlt,
		Cache:  c,
		Store:  store.New(),
		Config: cfg,
		Clock:  query.SystemClock,
	}
}

// Close flushes and drains pending cache persistence.
func (e *Env) Close() {
	e.Cache.Close()
}

// ValidatePath checks a caller-supplied document path: relative, slash
// separated, inside the vault, markdown.
func ValidatePath(path string) (string, error) {
	path = strings.TrimSpace(strings.ReplaceAll(path, "\\", "/"))
	path = strings.TrimPrefix(path, "./")
	if path == "" {
		return "", errors.NewInvalidRequest("path is required")
	}
	if strings.HasPrefix(path, "/") {
		return "", errors.NewInvalidRequest("path must be relative to the vault root")
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return "", errors.NewInvalidRequest("path must not contain ..")
		}
	}
	if !strings.HasSuffix(strings.ToLower(path), ".md") {
		return "", errors.NewInvalidRequest("path must name a markdown document")
	}
	return path, nil
}
