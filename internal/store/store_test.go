package store

import (
	"testing"

	"github.com/hpungsan/lapse/internal/timedata"
)

func TestStore_GetMissing(t *testing.T) {
	s := New()
	if got := s.Get("a.md"); got != nil {
		t.Errorf("Get = %v, want nil for missing document", got)
	}
}

func TestStore_GetOrCreate(t *testing.T) {
	s := New()

	first := s.GetOrCreate("a.md")
	if first == nil {
		t.Fatal("GetOrCreate = nil")
	}

	second := s.GetOrCreate("a.md")
	if first != second {
		t.Error("GetOrCreate returned a different record on second call")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStore_ReplaceWholesale(t *testing.T) {
	s := New()
	s.GetOrCreate("a.md")

	fresh := &timedata.DocumentTimeData{TotalTimeTracked: 600000}
	s.Replace("a.md", fresh)

	if got := s.Get("a.md"); got != fresh {
		t.Error("Replace did not install the new record")
	}
}

func TestStore_DeleteAndRename(t *testing.T) {
	s := New()
	data := s.GetOrCreate("old.md")

	s.Rename("old.md", "new.md")
	if s.Get("old.md") != nil {
		t.Error("old ID still present after rename")
	}
	if s.Get("new.md") != data {
		t.Error("new ID does not hold the original data")
	}

	s.Delete("new.md")
	if s.Len() != 0 {
		t.Errorf("Len = %d after delete, want 0", s.Len())
	}
}

func TestStore_IDsSorted(t *testing.T) {
	s := New()
	for _, id := range []string{"c.md", "a.md", "b.md"} {
		s.GetOrCreate(id)
	}

	ids := s.IDs()
	want := []string{"a.md", "b.md", "c.md"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("IDs[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}
