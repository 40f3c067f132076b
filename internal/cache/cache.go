// Package cache maintains parsed time data for documents that are not open,
// keyed by modification timestamp. A record whose stored mtime matches the
// document's current mtime is served without a content read; any mismatch
// forces a re-parse. The whole cache is persisted as one JSON blob with
// debounced writes; the snapshot is a derived index and may lag the
// documents by a few seconds without affecting correctness.
package cache

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"github.com/hpungsan/lapse/internal/config"
	"github.com/hpungsan/lapse/internal/db"
	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/timedata"
	"github.com/hpungsan/lapse/internal/vault"
)

// snapshotKey is the blob-store key the persisted cache lives under.
const snapshotKey = "cache_snapshot"

// Record is one cache slot: the parsed time data for a document plus the
// mtime it was parsed at. Records are replaced wholesale on every miss,
// never patched.
type Record struct {
	LastModified time.Time            `json:"last_modified"`
	Entries      []timedata.TimeEntry `json:"entries,omitempty"`
	Project      string               `json:"project,omitempty"`
	Tags         []string             `json:"tags,omitempty"`
	TotalTime    int64                `json:"total_time"`
}

// MtimeCache wraps a vault with mtime-validated parse caching.
// The zero value is not usable; construct with New.
type MtimeCache struct {
	mu      sync.Mutex
	records map[string]*Record

	vlt  vault.Vault
	dbc  *sql.DB
	opts timedata.Options
	deb  *debouncer
}

// New builds a cache over the given vault. database may be nil, in which
// case the cache is memory-only (used by tests and one-shot commands that
// never benefit from a persisted snapshot).
func New(vlt vault.Vault, database *sql.DB, cfg *config.Config) *MtimeCache {
	c := &MtimeCache{
		records: make(map[string]*Record),
		vlt:     vlt,
		dbc:     database,
		opts:    cfg.ParseOptions(),
	}
	c.deb = newDebouncer(cfg.FlushDebounce(), c.flush)

	if database != nil {
		c.loadSnapshot(cfg)
	}
	return c
}

// GetOrLoad returns the cached record for the document, re-parsing only when
// the document's modification timestamp has changed since the record was
// built. A document that cannot be read yields an empty record, never an
// error; a vanished document is simply a report with no time in it.
func (c *MtimeCache) GetOrLoad(id string) *Record {
	mt, err := c.vlt.ModTime(id)
	if err != nil {
		return &Record{}
	}

	c.mu.Lock()
	rec, ok := c.records[id]
	c.mu.Unlock()
	if ok && rec.LastModified.Equal(mt) {
		return rec
	}

	text, err := c.vlt.Read(id)
	if err != nil {
		// Deleted between the stat and the read.
		return &Record{}
	}

	rec = &Record{LastModified: mt}
	if data := timedata.Parse(text, timedata.DisplayName(id, c.opts), c.opts); data != nil {
		rec.Entries = data.Entries
		rec.TotalTime = data.TotalTimeTracked
	}
	rec.Project = timedata.ParseProject(text, c.opts)
	rec.Tags = timedata.ParseDocTags(text)

	c.mu.Lock()
	c.records[id] = rec
	c.mu.Unlock()

	c.deb.Schedule()
	return rec
}

// WriteTimeData serializes data into the document's existing text, writes it
// back, and invalidates the cache record so the writer's own change is
// visible before any external modification notice arrives. A missing
// document is created with a fresh header.
func (c *MtimeCache) WriteTimeData(id string, data *timedata.DocumentTimeData) error {
	text, err := c.vlt.Read(id)
	if err != nil {
		if !stderrors.Is(err, vault.ErrNotFound) {
			return errors.NewVaultIO(id, err)
		}
		text = ""
	}

	updated := timedata.Serialize(text, data, c.opts)
	if err := c.vlt.Write(id, updated); err != nil {
		return errors.NewVaultIO(id, err)
	}
	c.Invalidate(id)
	return nil
}

// Invalidate removes any record for the id. Writers call this immediately
// after modifying a document; rename and delete handlers call it for the old
// id. The next GetOrLoad re-parses.
func (c *MtimeCache) Invalidate(id string) {
	c.mu.Lock()
	_, had := c.records[id]
	delete(c.records, id)
	c.mu.Unlock()
	if had {
		c.deb.Schedule()
	}
}

// Len returns the number of cached records.
func (c *MtimeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Close drains pending snapshot writes and performs a final flush if one was
// still scheduled. Call on shutdown.
func (c *MtimeCache) Close() {
	c.deb.Drain()
}

// FlushNow forces an immediate snapshot write, first cancelling any armed
// debounce timer.
func (c *MtimeCache) FlushNow() {
	c.deb.FlushNow()
}

func (c *MtimeCache) flush() {
	if c.dbc == nil {
		return
	}
	c.mu.Lock()
	blob, err := json.Marshal(c.records)
	c.mu.Unlock()
	if err != nil {
		return
	}
	// Persist errors are swallowed: the snapshot only saves re-parses on
	// the next start, and every record can be rebuilt from the documents.
	_ = db.PutBlob(c.dbc, snapshotKey, blob)
}

func (c *MtimeCache) loadSnapshot(cfg *config.Config) {
	blob, err := db.GetBlob(c.dbc, snapshotKey)
	if err != nil || blob == nil {
		return
	}
	var loaded map[string]*Record
	if err := json.Unmarshal(blob, &loaded); err != nil {
		return
	}
	if cfg.CacheMaxRecords > 0 && len(loaded) > cfg.CacheMaxRecords {
		cutoff := time.Now().AddDate(0, 0, -cfg.CacheRetentionDays)
		for id, rec := range loaded {
			if rec.lastActivity().Before(cutoff) {
				delete(loaded, id)
			}
		}
	}
	for id, rec := range loaded {
		if rec != nil {
			c.records[id] = rec
		}
	}
}

// lastActivity is the most recent timestamp associated with the record,
// used only by load-time pruning.
func (r *Record) lastActivity() time.Time {
	latest := r.LastModified
	for i := range r.Entries {
		if t := r.Entries[i].EndTime; t != nil && t.After(latest) {
			latest = *t
		}
		if t := r.Entries[i].StartTime; t != nil && t.After(latest) {
			latest = *t
		}
	}
	return latest
}
