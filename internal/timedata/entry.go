package timedata

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// TimeEntry represents a single tracked interval.
//
// Duration holds accumulated milliseconds. For a running entry (EndTime nil)
// it is the time accumulated before the current run segment; the live elapsed
// time is Duration + (now - StartTime). For a completed entry, Duration is
// the authoritative tracked time and may legitimately differ from the
// wall-clock span (manual edits, pause/resume).
type TimeEntry struct {
	// ID uniquely identifies the entry for the lifetime of the parse.
	// IDs are not persisted to frontmatter; Parse assigns fresh ULIDs.
	ID string `json:"id"`

	// Label is free text describing the entry.
	Label string `json:"label"`

	// StartTime is when tracking began. Absent only transiently before a
	// timer starts.
	StartTime *time.Time `json:"start_time,omitempty"`

	// EndTime is when tracking stopped. Nil means currently running.
	EndTime *time.Time `json:"end_time,omitempty"`

	// Duration is the accumulated tracked time in milliseconds.
	Duration int64 `json:"duration"`

	// IsPaused reports whether a running entry's accumulation is
	// suspended. Runtime state only; never persisted.
	IsPaused bool `json:"is_paused,omitempty"`

	// Tags is an ordered list of tag strings.
	Tags []string `json:"tags,omitempty"`
}

// IsActive reports whether the entry is currently running:
// started but not yet ended. At most one entry per document should be
// active; that invariant is enforced by the layer that starts and stops
// entries, not here.
func (e *TimeEntry) IsActive() bool {
	return e.StartTime != nil && e.EndTime == nil
}

// IsCompleted reports whether the entry has both started and ended.
func (e *TimeEntry) IsCompleted() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// EffectiveDuration returns the duration used in aggregation: the stored
// duration for a completed entry, or the stored duration plus live elapsed
// time for an active one. A never-started entry contributes zero.
func (e *TimeEntry) EffectiveDuration(now time.Time) int64 {
	if e.IsCompleted() {
		return e.Duration
	}
	if e.IsActive() {
		return e.Duration + now.Sub(*e.StartTime).Milliseconds()
	}
	return 0
}

// DocumentTimeData is the per-document aggregate. It is created or replaced
// wholesale on every parse, never incrementally patched.
type DocumentTimeData struct {
	// Entries in encounter order in the source text (not guaranteed
	// chronological).
	Entries []TimeEntry `json:"entries"`

	// TotalTimeTracked is the sum of Duration over entries with an end
	// time, in milliseconds. Running entries are excluded; consumers add
	// their live elapsed time themselves.
	TotalTimeTracked int64 `json:"total_time_tracked"`
}

// RecomputeTotal recalculates TotalTimeTracked from the entries. A non-nil
// end time alone makes an entry count: a malformed end-without-start entry
// still carries its recorded duration.
func (d *DocumentTimeData) RecomputeTotal() {
	var total int64
	for i := range d.Entries {
		if d.Entries[i].EndTime != nil {
			total += d.Entries[i].Duration
		}
	}
	d.TotalTimeTracked = total
}

// ActiveEntry returns the currently running entry, or nil.
func (d *DocumentTimeData) ActiveEntry() *TimeEntry {
	for i := range d.Entries {
		if d.Entries[i].IsActive() {
			return &d.Entries[i]
		}
	}
	return nil
}

// entropy is shared so IDs generated within one parse are monotonic.
var entropy = &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)}

// NewEntryID generates a new ULID for a time entry.
func NewEntryID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		// crypto/rand exhaustion; a plain Make keeps parsing alive
		// rather than propagating an error through every parse path.
		return ulid.Make().String()
	}
	return id.String()
}
