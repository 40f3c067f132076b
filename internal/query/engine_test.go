package query

import (
	"testing"
	"time"

	"github.com/hpungsan/lapse/internal/cache"
	"github.com/hpungsan/lapse/internal/config"
	"github.com/hpungsan/lapse/internal/vault"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func engineFixture(t *testing.T, cfg *config.Config) (*Engine, *vault.Memory) {
	t.Helper()
	vlt := vault.NewMemory()
	c := cache.New(vlt, nil, cfg)
	t.Cleanup(c.Close)
	return NewEngine(vlt, c, cfg, fixedClock{rangeNow}), vlt
}

func writeDoc(t *testing.T, vlt *vault.Memory, id, text string) {
	t.Helper()
	if err := vlt.Write(id, text); err != nil {
		t.Fatalf("Write(%s) failed: %v", id, err)
	}
}

func TestEvaluate_ProjectTotalsSpanDocuments(t *testing.T) {
	cfg := config.DefaultConfig()
	eng, vlt := engineFixture(t, cfg)

	writeDoc(t, vlt, "Clients/call.md", `---
project: "[[Clients/Acme]]"
lapseEntries:
  - label: "Call"
    start: 2026-01-08T09:00:00
    end: 2026-01-08T10:00:00
    duration: 3600
---
`)
	writeDoc(t, vlt, "Clients/notes.md", `---
project: "[[Clients/Acme]]"
lapseEntries:
  - label: "Notes"
    start: 2026-01-08T10:30:00
    end: 2026-01-08T11:00:00
    duration: 1800
---
`)

	res, err := eng.Evaluate(&Query{Period: "today", GroupBy: GroupProject})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("len(Matches) = %d, want 2", len(res.Matches))
	}
	if len(res.Groups) != 1 {
		t.Fatalf("len(Groups) = %d, want 1", len(res.Groups))
	}
	g := res.Groups[0]
	if g.Key != "Acme" {
		t.Errorf("group key = %q, want Acme", g.Key)
	}
	if g.TotalTime != 5400000 {
		t.Errorf("group total = %d, want 5400000", g.TotalTime)
	}
	if res.TotalTime != 5400000 {
		t.Errorf("result total = %d, want 5400000", res.TotalTime)
	}
}

func TestEvaluate_GlobExclusion(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ExcludePaths = []string{"**/Archive"}
	eng, vlt := engineFixture(t, cfg)

	tracked := `---
lapseEntries:
  - label: "X"
    start: 2026-01-08T09:00:00
    end: 2026-01-08T09:10:00
    duration: 600
---
`
	writeDoc(t, vlt, "Projects/2020/Archive/old.md", tracked)
	writeDoc(t, vlt, "Archive/older.md", tracked)
	writeDoc(t, vlt, "Archived/notes.md", tracked)

	res, err := eng.Evaluate(&Query{Period: "today"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("len(Matches) = %d, want 1 (only Archived/notes.md in scope)", len(res.Matches))
	}
	if res.Matches[0].DocID != "Archived/notes.md" {
		t.Errorf("matched %q, want Archived/notes.md", res.Matches[0].DocID)
	}
}

func TestEvaluate_ActiveEntryLiveElapsed(t *testing.T) {
	cfg := config.DefaultConfig()
	eng, vlt := engineFixture(t, cfg)

	// Started one hour before the fixed clock's now, still running.
	writeDoc(t, vlt, "running.md", `---
lapseEntries:
  - label: "Focus block"
    start: 2026-01-08T13:30:00
    duration: 0
---
`)

	res, err := eng.Evaluate(&Query{Period: "today"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("len(Matches) = %d, want 1", len(res.Matches))
	}
	if got := res.Matches[0].Effective; got != int64(time.Hour/time.Millisecond) {
		t.Errorf("Effective = %d, want %d", got, int64(time.Hour/time.Millisecond))
	}
}

func TestEvaluate_BadDocumentSkipped(t *testing.T) {
	cfg := config.DefaultConfig()
	eng, vlt := engineFixture(t, cfg)

	writeDoc(t, vlt, "plain.md", "no frontmatter at all")
	writeDoc(t, vlt, "good.md", `---
lapseEntries:
  - label: "X"
    start: 2026-01-08T09:00:00
    end: 2026-01-08T09:10:00
    duration: 600
---
`)

	res, err := eng.Evaluate(&Query{Period: "today"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Errorf("len(Matches) = %d, want 1", len(res.Matches))
	}
}

func TestEvaluate_EmptyCorpus(t *testing.T) {
	cfg := config.DefaultConfig()
	eng, _ := engineFixture(t, cfg)

	res, err := eng.Evaluate(&Query{Period: "today"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(res.Matches) != 0 || res.TotalTime != 0 {
		t.Errorf("empty corpus produced matches: %+v", res.Matches)
	}
}
