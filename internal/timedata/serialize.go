package timedata

import (
	"fmt"
	"strings"
	"time"
)

// Serialize writes data back into the document's frontmatter. The managed
// fields (the entries block and the start/end/total scalars) are removed
// from the existing header, every other header line is preserved verbatim
// and in its original order, and the freshly rendered block is appended
// after them. A document without a header gets one.
//
// Round-trip invariant: parsing the serialized output reproduces data
// (modulo freshly assigned entry IDs).
func Serialize(text string, data *DocumentTimeData, opts Options) string {
	header, ok := frontmatterLines(text)
	if !ok {
		rendered := renderBlock(data, opts)
		if len(rendered) == 0 {
			return text
		}
		return "---\n" + strings.Join(rendered, "\n") + "\n---\n" + text
	}

	kept := removeManaged(header, opts)
	rendered := renderBlock(data, opts)

	// Body starts after the closing delimiter line.
	body := ""
	closing := headerLength(text, header)
	if nl := strings.Index(text[closing:], "\n"); nl >= 0 {
		body = text[closing+nl+1:]
	}

	var b strings.Builder
	b.WriteString("---\n")
	for _, line := range kept {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, line := range rendered {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("---\n")
	b.WriteString(body)
	return b.String()
}

// headerLength returns the byte offset of the closing delimiter line, so
// the body (closing "---" onward) can be carried over untouched. The
// opening line's own length is measured from the text to stay correct for
// CRLF documents.
func headerLength(text string, header []string) int {
	n := strings.Index(text, "\n") + 1
	for _, line := range header {
		n += len(line) + 1
	}
	return n
}

// removeManaged filters out every line belonging to the managed fields.
// The entries block is dropped by the same indentation-width rule the
// parser uses for membership: the key line plus every following indented
// line.
func removeManaged(header []string, opts Options) []string {
	kept := make([]string, 0, len(header))
	inEntries := false

	for _, raw := range header {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if inEntries {
			if trimmed != "" && indentWidth(line) > 0 {
				continue
			}
			inEntries = false
		}

		if indentWidth(line) == 0 {
			if key, value, ok := splitField(trimmed); ok {
				switch key {
				case opts.EntriesKey:
					if value == "" {
						inEntries = true
					}
					continue
				case opts.StartKey, opts.EndKey, opts.TotalKey:
					continue
				}
			}
		}

		kept = append(kept, raw)
	}

	// Trailing blank lines before the appended block read poorly; the
	// splice keeps interior blanks only.
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}
	return kept
}

// renderBlock renders the managed fields from data. With no entries the
// managed fields simply disappear from the header: the document reverts to
// untracked.
func renderBlock(data *DocumentTimeData, opts Options) []string {
	if data == nil || len(data.Entries) == 0 {
		return nil
	}

	earliest, latest := span(data.Entries)

	var lines []string
	if earliest != nil {
		lines = append(lines, fmt.Sprintf("%s: %s", opts.StartKey, FormatTimestamp(*earliest)))
	}
	if latest != nil {
		lines = append(lines, fmt.Sprintf("%s: %s", opts.EndKey, FormatTimestamp(*latest)))
	}

	lines = append(lines, opts.EntriesKey+":")
	for i := range data.Entries {
		lines = append(lines, renderEntry(&data.Entries[i])...)
	}

	var total int64
	for i := range data.Entries {
		if data.Entries[i].EndTime != nil {
			total += data.Entries[i].Duration
		}
	}
	lines = append(lines, fmt.Sprintf("%s: %q", opts.TotalKey, FormatDuration(total)))

	return lines
}

// renderEntry renders one sequence item. Optional sub-fields are emitted
// only when present; tags only when non-empty. %q quoting escapes embedded
// quotes and backslashes the same way the parser unescapes them.
func renderEntry(e *TimeEntry) []string {
	lines := []string{fmt.Sprintf("  - label: %q", e.Label)}
	if e.StartTime != nil {
		lines = append(lines, "    start: "+FormatTimestamp(*e.StartTime))
	}
	if e.EndTime != nil {
		lines = append(lines, "    end: "+FormatTimestamp(*e.EndTime))
	}
	lines = append(lines, fmt.Sprintf("    duration: %d", e.Duration/1000))
	if len(e.Tags) > 0 {
		quoted := make([]string, len(e.Tags))
		for i, tag := range e.Tags {
			quoted[i] = fmt.Sprintf("%q", tag)
		}
		lines = append(lines, "    tags: ["+strings.Join(quoted, ", ")+"]")
	}
	return lines
}

// span returns the earliest start and latest end across the entries.
func span(entries []TimeEntry) (earliest, latest *time.Time) {
	for i := range entries {
		e := &entries[i]
		if e.StartTime != nil && (earliest == nil || e.StartTime.Before(*earliest)) {
			earliest = e.StartTime
		}
		if e.EndTime != nil && (latest == nil || e.EndTime.After(*latest)) {
			latest = e.EndTime
		}
	}
	return earliest, latest
}
