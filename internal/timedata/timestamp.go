package timedata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timestampPattern is the primary timestamp grammar:
// YYYY-MM-DD[T| ]HH:MM[:SS][.frac][Z|±HH:MM].
var timestampPattern = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2})(?::(\d{2}))?(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)

// fallbackLayouts are tried in order when the primary grammar does not match.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"20060102-150405",
	"20060102",
}

// ParseTimestamp parses a frontmatter timestamp value. Returns nil when the
// value cannot be interpreted; an unparsable timestamp is dropped, never an
// error.
func ParseTimestamp(value string) *time.Time {
	value = strings.TrimSpace(strings.Trim(strings.TrimSpace(value), `"'`))
	if value == "" {
		return nil
	}

	if m := timestampPattern.FindStringSubmatch(value); m != nil {
		t, ok := buildTimestamp(m)
		if ok {
			return &t
		}
		return nil
	}

	// Best-effort generic parsing
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

// buildTimestamp assembles a time.Time from the primary grammar's submatches.
func buildTimestamp(m []string) (time.Time, bool) {
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	second := 0
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}

	nanos := 0
	if m[7] != "" {
		frac, err := strconv.ParseFloat(m[7], 64)
		if err == nil {
			nanos = int(frac * float64(time.Second))
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 60 {
		return time.Time{}, false
	}

	loc := time.Local
	switch {
	case m[8] == "Z":
		loc = time.UTC
	case m[8] != "":
		sign := 1
		if m[8][0] == '-' {
			sign = -1
		}
		oh, _ := strconv.Atoi(m[8][1:3])
		om, _ := strconv.Atoi(m[8][4:6])
		loc = time.FixedZone(m[8], sign*(oh*3600+om*60))
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, nanos, loc), true
}

// FormatTimestamp renders a timestamp the way it is written to frontmatter.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

// FormatDuration renders milliseconds as HH:MM:SS. Hours grow past two
// digits rather than wrapping.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
