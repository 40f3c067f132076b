// Package glob compiles user-supplied path exclusion patterns. Patterns use
// '*' (any run of non-separator characters) and '**' (any run including
// separators). A compiled pattern is anchored at the start of the path and
// matches at segment granularity: a directory pattern also excludes the
// files nested under it.
package glob

import (
	"regexp"
	"strings"
)

// placeholder tokens keep '**' safe while single '*' is substituted.
const (
	anyDirToken  = "\x00ANYDIR\x00"
	anyPathToken = "\x00ANYPATH\x00"
)

// Matcher is a compiled glob pattern.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// Compile translates a glob pattern into a Matcher. An unusable pattern
// (which the translation cannot actually produce, but callers should not
// have to reason about that) yields a matcher that matches nothing.
func Compile(pattern string) *Matcher {
	normalized := normalize(pattern)

	// Shelter '**/' and '**' before escaping and before single '*' is
	// rewritten, then restore them with their cross-separator meaning.
	s := strings.ReplaceAll(normalized, "**/", anyDirToken)
	s = strings.ReplaceAll(s, "**", anyPathToken)
	s = regexp.QuoteMeta(s)
	s = strings.ReplaceAll(s, `\*`, "[^/]*")
	s = strings.ReplaceAll(s, anyDirToken, "(?:.*/)?")
	s = strings.ReplaceAll(s, anyPathToken, ".*")

	// Anchored at the start only; the trailing segment boundary gives
	// prefix-exclusion semantics without matching mid-segment.
	re, err := regexp.Compile("^" + s + "(?:/|$)")
	if err != nil {
		return &Matcher{pattern: pattern}
	}
	return &Matcher{pattern: pattern, re: re}
}

// Match reports whether the normalized path is covered by the pattern.
func (m *Matcher) Match(path string) bool {
	if m.re == nil {
		return false
	}
	return m.re.MatchString(normalize(path))
}

// IsExcluded reports whether any non-empty pattern matches the path. An
// empty pattern list never excludes and performs no compilation.
func IsExcluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if Compile(p).Match(path) {
			return true
		}
	}
	return false
}

// CompileAll compiles every non-empty pattern once, for callers that match
// many paths against the same set.
func CompileAll(patterns []string) []*Matcher {
	matchers := make([]*Matcher, 0, len(patterns))
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		matchers = append(matchers, Compile(p))
	}
	return matchers
}

// MatchAny reports whether any compiled matcher covers the path.
func MatchAny(path string, matchers []*Matcher) bool {
	for _, m := range matchers {
		if m.Match(path) {
			return true
		}
	}
	return false
}

// normalize canonicalizes path separators to forward slashes and trims
// leading separators so patterns and paths compare in one form.
func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(strings.TrimSpace(p), "/")
}
