package timedata

import (
	"regexp"
	"strings"
)

// stripPatterns are applied in priority order: compact date-times first so
// their digit runs are not partially consumed by the bare-date patterns.
var stripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{8}-\d{6}`),                                           // 20260107-093000
	regexp.MustCompile(`\d{8}-\d{4}`),                                           // 20260107-0930
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{1,2}:\d{2}(?::\d{2})?(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?`), // ISO date-time
	regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{1,2}:\d{2}(?::\d{2})?`),            // date time
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),                                     // bare date
	regexp.MustCompile(`\d{4}/\d{2}/\d{2}`),                                     // slashed date
	regexp.MustCompile(`\d{8}`),                                                 // compact date
	regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?`),                              // bare time
}

// separatorRun collapses repeated separator characters left behind by a
// removal. The run is replaced by its first character.
var separatorRun = regexp.MustCompile(`([\s_.-])[\s_.-]+`)

// StripTimestamps removes timestamp-looking substrings from s: compact
// date-times, ISO date-times, bare dates, and bare times, each only when
// bounded by a separator or the string edge. Leftover separator runs are
// collapsed and the result trimmed. If stripping would leave nothing, the
// original string is returned unchanged; a label is never emptied.
//
// The transform is idempotent: StripTimestamps(StripTimestamps(s)) ==
// StripTimestamps(s).
func StripTimestamps(s string) string {
	out := s
	// Removing one pattern can butt digit runs together and expose
	// another; iterate to a fixed point so the result is stable.
	for {
		next := stripOnce(out)
		if next == out {
			break
		}
		out = next
	}
	if out == "" {
		return s
	}
	return out
}

// stripOnce applies every pattern a single time.
func stripOnce(s string) string {
	for _, p := range stripPatterns {
		s = removeBounded(s, p)
	}
	s = separatorRun.ReplaceAllString(s, "$1")
	return strings.Trim(s, " \t_.-")
}

// removeBounded deletes every match of p that sits on a separator or string
// boundary on both sides. Matches embedded in a word (e.g. "v20260107x")
// survive.
func removeBounded(s string, p *regexp.Regexp) string {
	matches := p.FindAllStringIndex(s, -1)
	if matches == nil {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	prev := 0
	for _, m := range matches {
		if !boundaryAt(s, m[0]-1) || !boundaryAt(s, m[1]) {
			continue
		}
		b.WriteString(s[prev:m[0]])
		prev = m[1]
	}
	b.WriteString(s[prev:])
	return b.String()
}

// boundaryAt reports whether position i is outside the string or holds a
// separator character.
func boundaryAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	switch s[i] {
	case ' ', '\t', '-', '_', '.', ',', '(', ')', '[', ']':
		return true
	}
	return false
}
