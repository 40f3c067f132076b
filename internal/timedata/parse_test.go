package timedata

import (
	"testing"
	"time"
)

var basicDoc = `---
lapseEntries:
  - label: "X"
    start: 2026-01-01T08:00:00
    end: 2026-01-01T08:10:00
    duration: 600
---
Body text stays out of the header.
`

func TestParse_BasicRoundTripScenario(t *testing.T) {
	data := Parse(basicDoc, "note", DefaultOptions())
	if data == nil {
		t.Fatal("Parse returned nil, want data")
	}
	if len(data.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(data.Entries))
	}

	e := data.Entries[0]
	if e.Label != "X" {
		t.Errorf("Label = %q, want 'X'", e.Label)
	}
	if e.Duration != 600000 {
		t.Errorf("Duration = %d, want 600000 ms", e.Duration)
	}
	if e.StartTime == nil || e.EndTime == nil {
		t.Fatal("StartTime/EndTime absent, want both set")
	}
	if data.TotalTimeTracked != 600000 {
		t.Errorf("TotalTimeTracked = %d, want 600000", data.TotalTimeTracked)
	}
	if e.ID == "" {
		t.Error("ID is empty, want a generated ULID")
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	if data := Parse("Just a plain note.\n", "note", DefaultOptions()); data != nil {
		t.Errorf("Parse = %+v, want nil for document without frontmatter", data)
	}
}

func TestParse_UnterminatedFrontmatter(t *testing.T) {
	if data := Parse("---\nfoo: bar\nno closing marker\n", "note", DefaultOptions()); data != nil {
		t.Errorf("Parse = %+v, want nil for unterminated header", data)
	}
}

func TestParse_ActiveEntryExcludedFromTotal(t *testing.T) {
	doc := `---
lapseEntries:
  - label: "Done"
    start: 2026-01-01T08:00:00
    end: 2026-01-01T08:10:00
    duration: 600
  - label: "Running"
    start: 2026-01-01T09:00:00
    duration: 120
---
`
	data := Parse(doc, "note", DefaultOptions())
	if len(data.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(data.Entries))
	}
	if data.TotalTimeTracked != 600000 {
		t.Errorf("TotalTimeTracked = %d, want 600000 (active entry excluded)", data.TotalTimeTracked)
	}

	active := data.ActiveEntry()
	if active == nil {
		t.Fatal("ActiveEntry = nil, want the running entry")
	}
	if active.Label != "Running" {
		t.Errorf("active Label = %q, want 'Running'", active.Label)
	}
}

func TestParse_EndWithoutStartStillCountsInTotal(t *testing.T) {
	doc := `---
lapseEntries:
  - label: "Done"
    start: 2026-01-01T08:00:00
    end: 2026-01-01T08:10:00
    duration: 600
  - label: "Malformed"
    end: 2026-01-01T09:00:00
    duration: 300
---
`
	data := Parse(doc, "note", DefaultOptions())
	if len(data.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(data.Entries))
	}
	// An end time alone makes an entry count toward the stored total.
	if data.TotalTimeTracked != 900000 {
		t.Errorf("TotalTimeTracked = %d, want 900000", data.TotalTimeTracked)
	}
}

func TestParse_TagShapes(t *testing.T) {
	doc := `---
lapseEntries:
  - label: "inline"
    start: 2026-01-01T08:00:00
    tags: ["billable", "client"]
  - label: "comma"
    start: 2026-01-01T09:00:00
    tags: billable, deep-work
  - label: "nested"
    start: 2026-01-01T10:00:00
    tags:
      - billable
      - "#research"
---
`
	data := Parse(doc, "note", DefaultOptions())
	if len(data.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(data.Entries))
	}

	tests := []struct {
		idx  int
		want []string
	}{
		{0, []string{"billable", "client"}},
		{1, []string{"billable", "deep-work"}},
		{2, []string{"billable", "research"}},
	}
	for _, tt := range tests {
		got := data.Entries[tt.idx].Tags
		if len(got) != len(tt.want) {
			t.Errorf("entry %d tags = %v, want %v", tt.idx, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("entry %d tag %d = %q, want %q", tt.idx, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParse_MalformedTimestampDropped(t *testing.T) {
	doc := `---
lapseEntries:
  - label: "broken clock"
    start: not-a-time
    end: 2026-01-01T08:10:00
    duration: 300
---
`
	data := Parse(doc, "note", DefaultOptions())
	if len(data.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(data.Entries))
	}
	e := data.Entries[0]
	if e.StartTime != nil {
		t.Errorf("StartTime = %v, want nil for unparsable value", e.StartTime)
	}
	if e.EndTime == nil {
		t.Error("EndTime = nil, want parsed value")
	}
	// The end time survived, so the recorded duration still counts.
	if data.TotalTimeTracked != 300000 {
		t.Errorf("TotalTimeTracked = %d, want 300000", data.TotalTimeTracked)
	}
}

func TestParse_MissingLabelGetsPlaceholder(t *testing.T) {
	doc := `---
lapseEntries:
  - start: 2026-01-01T08:00:00
    end: 2026-01-01T08:30:00
    duration: 1800
---
`
	data := Parse(doc, "note", DefaultOptions())
	if len(data.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(data.Entries))
	}
	if data.Entries[0].Label != "Untitled" {
		t.Errorf("Label = %q, want placeholder 'Untitled'", data.Entries[0].Label)
	}
}

func TestParse_BlockEndsAtTopLevelField(t *testing.T) {
	doc := `---
lapseEntries:
  - label: "first"
    start: 2026-01-01T08:00:00
    duration: 60
status: active
  - label: "orphan"
---
`
	data := Parse(doc, "note", DefaultOptions())
	if len(data.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1 (block ends at top-level line)", len(data.Entries))
	}
	if data.Entries[0].Label != "first" {
		t.Errorf("Label = %q, want 'first'", data.Entries[0].Label)
	}
}

func TestParse_ScalarFallback(t *testing.T) {
	doc := `---
startTime: 2026-01-07T09:00:00
endTime: 2026-01-07T10:30:00
---
`
	data := Parse(doc, "Client kickoff 2026-01-07", DefaultOptions())
	if len(data.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1 synthesized entry", len(data.Entries))
	}

	e := data.Entries[0]
	if e.Label != "Client kickoff" {
		t.Errorf("Label = %q, want timestamp-stripped 'Client kickoff'", e.Label)
	}
	if e.Duration != 90*60*1000 {
		t.Errorf("Duration = %d, want %d (end - start)", e.Duration, 90*60*1000)
	}
	if data.TotalTimeTracked != e.Duration {
		t.Errorf("TotalTimeTracked = %d, want %d", data.TotalTimeTracked, e.Duration)
	}
}

func TestParse_ScalarFallbackWithoutEnd(t *testing.T) {
	doc := `---
startTime: 2026-01-07T09:00:00
---
`
	data := Parse(doc, "standup", DefaultOptions())
	if len(data.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(data.Entries))
	}
	e := data.Entries[0]
	if e.EndTime != nil {
		t.Errorf("EndTime = %v, want nil", e.EndTime)
	}
	if e.Duration != 0 {
		t.Errorf("Duration = %d, want 0 (no end value)", e.Duration)
	}
}

func TestParse_FallbackSkippedWhenEntriesPresent(t *testing.T) {
	doc := `---
startTime: 2026-01-07T09:00:00
endTime: 2026-01-07T17:00:00
lapseEntries:
  - label: "real"
    start: 2026-01-07T09:00:00
    end: 2026-01-07T09:30:00
    duration: 1800
---
`
	data := Parse(doc, "note", DefaultOptions())
	if len(data.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1 (no synthesized extra)", len(data.Entries))
	}
	if data.Entries[0].Label != "real" {
		t.Errorf("Label = %q, want 'real'", data.Entries[0].Label)
	}
}

func TestParse_ConfigurableKeys(t *testing.T) {
	doc := `---
sessions:
  - label: "renamed"
    start: 2026-01-01T08:00:00
    end: 2026-01-01T08:01:00
    duration: 60
---
`
	opts := DefaultOptions()
	opts.EntriesKey = "sessions"

	data := Parse(doc, "note", opts)
	if len(data.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1 under configured key", len(data.Entries))
	}

	// Default key finds nothing in the same document
	if got := Parse(doc, "note", DefaultOptions()); len(got.Entries) != 0 {
		t.Errorf("len(Entries) = %d with default key, want 0", len(got.Entries))
	}
}

func TestParse_EscapedLabel(t *testing.T) {
	doc := `---
lapseEntries:
  - label: "say \"hi\" to C:\\temp"
    start: 2026-01-01T08:00:00
    duration: 60
---
`
	data := Parse(doc, "note", DefaultOptions())
	if len(data.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(data.Entries))
	}
	want := `say "hi" to C:\temp`
	if data.Entries[0].Label != want {
		t.Errorf("Label = %q, want %q", data.Entries[0].Label, want)
	}
}

func TestParseProject(t *testing.T) {
	doc := `---
project: "[[Clients/Acme]]"
lapseEntries:
  - label: "x"
    start: 2026-01-01T08:00:00
    duration: 60
---
`
	if got := ParseProject(doc, DefaultOptions()); got != "Clients/Acme" {
		t.Errorf("ParseProject = %q, want 'Clients/Acme'", got)
	}

	if got := ParseProject("no header here", DefaultOptions()); got != "" {
		t.Errorf("ParseProject = %q, want empty for missing header", got)
	}
}

func TestParseDocTags(t *testing.T) {
	doc := `---
tags:
  - weekly
  - review
---
`
	got := ParseDocTags(doc)
	if len(got) != 2 || got[0] != "weekly" || got[1] != "review" {
		t.Errorf("ParseDocTags = %v, want [weekly review]", got)
	}

	inline := "---\ntags: [alpha, beta]\n---\n"
	got = ParseDocTags(inline)
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("ParseDocTags = %v, want [alpha beta]", got)
	}
}

func TestDisplayName(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		id   string
		want string
	}{
		{"Projects/Acme/kickoff.md", "kickoff"},
		{"Daily/2026-01-07 standup.md", "standup"},
		{"note.md", "note"},
		{"2026-01-07.md", "2026-01-07"}, // stripping everything keeps the original
	}
	for _, tt := range tests {
		if got := DisplayName(tt.id, opts); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestEffectiveDuration(t *testing.T) {
	start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.Local)
	now := start.Add(30 * time.Minute)

	completedEnd := start.Add(10 * time.Minute)
	completed := TimeEntry{StartTime: &start, EndTime: &completedEnd, Duration: 600000}
	if got := completed.EffectiveDuration(now); got != 600000 {
		t.Errorf("completed EffectiveDuration = %d, want 600000", got)
	}

	active := TimeEntry{StartTime: &start, Duration: 120000}
	want := int64(120000) + 30*60*1000
	if got := active.EffectiveDuration(now); got != want {
		t.Errorf("active EffectiveDuration = %d, want %d", got, want)
	}

	neverStarted := TimeEntry{Duration: 500}
	if got := neverStarted.EffectiveDuration(now); got != 0 {
		t.Errorf("never-started EffectiveDuration = %d, want 0", got)
	}
}
