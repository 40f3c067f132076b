package timedata

import "testing"

func TestStripTimestamps(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"meeting 2026-01-07", "meeting"},
		{"2026-01-07 meeting", "meeting"},
		{"meeting 2026-01-07 notes", "meeting notes"},
		{"capture 20260107-093000", "capture"},
		{"capture 20260107-0930", "capture"},
		{"log 2026-01-07T09:30:00", "log"},
		{"log 2026-01-07T09:30:00Z", "log"},
		{"log 2026-01-07 09:30", "log"},
		{"standup 09:30", "standup"},
		{"standup 09:30:15", "standup"},
		{"release 2026/01/07", "release"},
		{"scan 20260107", "scan"},
		{"daily-2026-01-07-review", "daily-review"},
		{"no timestamps here", "no timestamps here"},
		// Embedded in a word: not bounded, survives
		{"v20260107x", "v20260107x"},
		// Everything stripped: the original comes back
		{"2026-01-07", "2026-01-07"},
		{"09:30", "09:30"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripTimestamps(tt.in); got != tt.want {
			t.Errorf("StripTimestamps(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripTimestamps_Idempotent(t *testing.T) {
	inputs := []string{
		"meeting 2026-01-07 notes",
		"capture 20260107-093000",
		"daily-2026-01-07-review",
		"2026-01-07",
		"a 2026-01-0710:30 b",
		"plain text",
		"",
	}
	for _, in := range inputs {
		once := StripTimestamps(in)
		twice := StripTimestamps(once)
		if once != twice {
			t.Errorf("strip not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2026-01-07T09:00:00", true},
		{"2026-01-07 09:00:00", true},
		{"2026-01-07T09:00", true},
		{"2026-01-07T09:00:00.123", true},
		{"2026-01-07T09:00:00Z", true},
		{"2026-01-07T09:00:00+02:00", true},
		{"2026-01-07", true}, // fallback layout
		{"2026/01/07", true},
		{"20260107-150405", true},
		{`"2026-01-07T09:00:00"`, true}, // quoted scalar
		{"not a time", false},
		{"2026-13-40T09:00:00", false},
		{"", false},
	}
	for _, tt := range tests {
		got := ParseTimestamp(tt.in)
		if (got != nil) != tt.ok {
			t.Errorf("ParseTimestamp(%q) = %v, want ok=%v", tt.in, got, tt.ok)
		}
	}
}

func TestParseTimestamp_Values(t *testing.T) {
	got := ParseTimestamp("2026-01-07T09:30:15")
	if got == nil {
		t.Fatal("ParseTimestamp = nil")
	}
	if got.Year() != 2026 || got.Month() != 1 || got.Day() != 7 {
		t.Errorf("date = %v, want 2026-01-07", got)
	}
	if got.Hour() != 9 || got.Minute() != 30 || got.Second() != 15 {
		t.Errorf("time = %v, want 09:30:15", got)
	}

	utc := ParseTimestamp("2026-01-07T09:30:00Z")
	if utc == nil {
		t.Fatal("ParseTimestamp(Z) = nil")
	}
	if _, offset := utc.Zone(); offset != 0 {
		t.Errorf("zone offset = %d, want 0 for Z suffix", offset)
	}
}
