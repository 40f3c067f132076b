package timedata

import (
	"strconv"
	"strings"
)

// Options carries the configurable frontmatter key names plus the
// name-display setting. Key names come from application config; the
// defaults here match the persisted format's documented keys.
type Options struct {
	EntriesKey string
	StartKey   string
	EndKey     string
	TotalKey   string
	ProjectKey string

	// StripNames removes timestamp-looking substrings from document
	// names when deriving labels and display names.
	StripNames bool
}

// DefaultOptions returns the default frontmatter key names.
func DefaultOptions() Options {
	return Options{
		EntriesKey: "lapseEntries",
		StartKey:   "startTime",
		EndKey:     "endTime",
		TotalKey:   "totalTimeTracked",
		ProjectKey: "project",
		StripNames: true,
	}
}

// defaultLabel is the placeholder for entries parsed without a label.
const defaultLabel = "Untitled"

// Parse extracts time-tracking data from a document's frontmatter. docName
// is the document's display name (base name without extension), used to
// derive a label when falling back to the scalar start/end fields.
//
// Returns nil when the document has no frontmatter. Malformed values inside
// the frontmatter degrade to absent fields or dropped entries; Parse never
// fails.
func Parse(text, docName string, opts Options) *DocumentTimeData {
	header, ok := frontmatterLines(text)
	if !ok {
		return nil
	}

	data := &DocumentTimeData{Entries: parseEntryBlock(header, opts.EntriesKey)}

	// Fallback: a document tracked only through the scalar start/end
	// fields yields a single synthesized entry. This mirrors observed
	// behavior; a stray start timestamp is enough to fabricate one.
	if len(data.Entries) == 0 {
		if e, ok := scalarFallback(header, docName, opts); ok {
			data.Entries = append(data.Entries, e)
		}
	}

	data.RecomputeTotal()
	return data
}

// ParseProject resolves the document's project label: a single top-level
// key lookup in the frontmatter, independent of the time block. Returns ""
// when absent.
func ParseProject(text string, opts Options) string {
	header, ok := frontmatterLines(text)
	if !ok {
		return ""
	}
	value, ok := scalarValue(header, opts.ProjectKey)
	if !ok {
		return ""
	}
	return cleanScalar(value)
}

// ParseDocTags resolves the document-level tags field (the document's own
// "tags" key, not an entry's). Accepts the same three shapes an entry's
// tags field does.
func ParseDocTags(text string) []string {
	header, ok := frontmatterLines(text)
	if !ok {
		return nil
	}

	for i, line := range header {
		if indentWidth(line) != 0 {
			continue
		}
		key, value, ok := splitField(strings.TrimSpace(line))
		if !ok || key != "tags" {
			continue
		}
		if value != "" {
			return parseInlineTags(value)
		}
		return parseNestedTags(header[i+1:])
	}
	return nil
}

// DisplayName derives the document's display name from its path: the last
// path segment without extension, timestamp-stripped when configured.
func DisplayName(docID string, opts Options) string {
	name := docID
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	if opts.StripNames {
		name = StripTimestamps(name)
	}
	return name
}

// frontmatterLines returns the header lines between the opening and closing
// "---" markers, or ok=false when the document has no frontmatter.
func frontmatterLines(text string) ([]string, bool) {
	rest, ok := strings.CutPrefix(text, "---")
	if !ok {
		return nil, false
	}
	rest, ok = strings.CutPrefix(strings.TrimPrefix(rest, "\r"), "\n")
	if !ok {
		return nil, false
	}

	lines := strings.Split(rest, "\n")
	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if trimmed == "---" || trimmed == "..." {
			return lines[:i], true
		}
	}
	// Unterminated header: treat as no frontmatter rather than guessing
	// where it ends.
	return nil, false
}

// entryBuilder accumulates one entry's fields while the scanner walks its
// lines. Optional fields distinguish "not yet seen" from "seen but empty"
// so finalize has an unambiguous contract.
type entryBuilder struct {
	label    *string
	start    *string
	end      *string
	duration *int64
	tags     []string
	sawTags  bool
}

// touched reports whether any recognized sub-field was seen. An item marker
// with no recognized fields produces no entry.
func (b *entryBuilder) touched() bool {
	return b.label != nil || b.start != nil || b.end != nil || b.duration != nil || b.sawTags
}

// finalize converts the accumulator to a TimeEntry, applying defaults.
func (b *entryBuilder) finalize() TimeEntry {
	e := TimeEntry{
		ID:    NewEntryID(),
		Label: defaultLabel,
		Tags:  b.tags,
	}
	if b.label != nil {
		e.Label = *b.label
	}
	if b.start != nil {
		e.StartTime = ParseTimestamp(*b.start)
	}
	if b.end != nil {
		e.EndTime = ParseTimestamp(*b.end)
	}
	if b.duration != nil {
		e.Duration = *b.duration
	}
	return e
}

// parseEntryBlock scans the header for the entries field and walks its item
// block. Block membership is decided by leading-whitespace width against
// the field's own indentation, not by a full grammar: an entry is finalized
// when a new item marker appears, when indentation returns to zero on a
// non-item line, or at the end of the block.
func parseEntryBlock(header []string, entriesKey string) []TimeEntry {
	var entries []TimeEntry
	var cur *entryBuilder

	inBlock := false
	inTags := false
	tagsIndent := 0

	finish := func() {
		if cur != nil && cur.touched() {
			entries = append(entries, cur.finalize())
		}
		cur = nil
	}

	for _, raw := range header {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if !inBlock {
			if indentWidth(line) != 0 {
				continue
			}
			key, value, ok := splitField(trimmed)
			if ok && key == entriesKey && value == "" {
				inBlock = true
			}
			continue
		}

		if trimmed == "" {
			continue
		}

		indent := indentWidth(line)
		if indent == 0 {
			// Indentation returned to the top level: the block is
			// over regardless of what the line holds.
			break
		}

		// Nested tag items are dash lines deeper than their tags field.
		if inTags && indent > tagsIndent && strings.HasPrefix(trimmed, "-") {
			tag := cleanScalar(strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
			if tag != "" && cur != nil {
				cur.tags = append(cur.tags, tag)
			}
			continue
		}
		inTags = false

		rest, isItem := strings.CutPrefix(trimmed, "- ")
		if !isItem && trimmed == "-" {
			rest, isItem = "", true
		}
		if isItem {
			finish()
			cur = &entryBuilder{}
			if rest = strings.TrimSpace(rest); rest != "" {
				inTags, tagsIndent = applyField(cur, rest, indent)
			}
			continue
		}

		if cur == nil {
			continue
		}
		inTags, tagsIndent = applyField(cur, trimmed, indent)
	}

	finish()
	return entries
}

// applyField interprets one "key: value" line inside an item. Unknown keys
// are ignored. Returns the nested-tags scanner state.
func applyField(b *entryBuilder, field string, indent int) (inTags bool, tagsIndent int) {
	key, value, ok := splitField(field)
	if !ok {
		return false, 0
	}

	switch key {
	case "label":
		label := unquoteLabel(value)
		b.label = &label
	case "start":
		b.start = &value
	case "end":
		b.end = &value
	case "duration":
		if secs, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			ms := secs * 1000
			b.duration = &ms
		}
	case "tags":
		b.sawTags = true
		if value == "" {
			// Multi-line list follows; collect dash items deeper
			// than this line.
			return true, indent
		}
		b.tags = append(b.tags, parseInlineTags(value)...)
	}
	return false, 0
}

// scalarFallback synthesizes a single entry from the top-level start/end
// scalar fields. At least a parsable start value is required.
func scalarFallback(header []string, docName string, opts Options) (TimeEntry, bool) {
	startRaw, ok := scalarValue(header, opts.StartKey)
	if !ok {
		return TimeEntry{}, false
	}
	start := ParseTimestamp(startRaw)
	if start == nil {
		return TimeEntry{}, false
	}

	e := TimeEntry{
		ID:        NewEntryID(),
		Label:     fallbackLabel(docName, opts),
		StartTime: start,
	}
	if endRaw, ok := scalarValue(header, opts.EndKey); ok {
		if end := ParseTimestamp(endRaw); end != nil && !end.Before(*start) {
			e.EndTime = end
			e.Duration = end.Sub(*start).Milliseconds()
		}
	}
	return e, true
}

// fallbackLabel derives the synthesized entry's label from the document
// name. Never empty.
func fallbackLabel(docName string, opts Options) string {
	name := docName
	if opts.StripNames {
		name = StripTimestamps(name)
	}
	if strings.TrimSpace(name) == "" {
		return defaultLabel
	}
	return name
}

// scalarValue finds a top-level "key: value" line and returns its raw value.
func scalarValue(header []string, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	for _, line := range header {
		if indentWidth(line) != 0 {
			continue
		}
		k, v, ok := splitField(strings.TrimSpace(strings.TrimRight(line, "\r")))
		if ok && k == key && v != "" {
			return v, true
		}
	}
	return "", false
}

// splitField splits "key: value" at the first colon. A trailing bare colon
// yields an empty value (a block-introducing field).
func splitField(s string) (key, value string, ok bool) {
	i := strings.Index(s, ":")
	if i <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
}

// parseInlineTags handles both the bracketed inline list and the plain
// comma-separated scalar form.
func parseInlineTags(value string) []string {
	value = strings.TrimSpace(value)
	if v, ok := strings.CutPrefix(value, "["); ok {
		// Tolerate a missing closing bracket.
		value = strings.TrimSuffix(v, "]")
	}

	var tags []string
	for _, part := range strings.Split(value, ",") {
		tag := cleanScalar(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// parseNestedTags collects dash items that follow a bare top-level tags
// field, stopping at the first line back at the top level.
func parseNestedTags(lines []string) []string {
	var tags []string
	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if indentWidth(line) == 0 || !strings.HasPrefix(trimmed, "-") {
			break
		}
		tag := cleanScalar(strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// cleanScalar strips surrounding quotes, wiki-link brackets, and a leading
// '#' from a scalar value.
func cleanScalar(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[[")
	s = strings.TrimSuffix(s, "]]")
	s = strings.Trim(s, `"'`)
	s = strings.TrimPrefix(s, "#")
	return strings.TrimSpace(s)
}

// unquoteLabel removes surrounding double quotes and unescapes the quoted
// contents. Serialized labels are %q-quoted, so the full escape grammar
// (control characters, \uXXXX) must round-trip, not just quotes and
// backslashes. Hand-written labels with stray escapes that Unquote rejects
// keep the tolerant quote-and-backslash handling.
func unquoteLabel(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		s = s[1 : len(s)-1]
		s = strings.ReplaceAll(s, `\"`, `"`)
		s = strings.ReplaceAll(s, `\\`, `\`)
	}
	return s
}

// indentWidth counts leading whitespace columns. Tabs count as a single
// column; membership decisions only compare widths within one document, so
// the exact tab width does not matter.
func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		width++
	}
	return width
}
