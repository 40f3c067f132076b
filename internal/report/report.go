// Package report renders query results as markdown and HTML. Rendering is a
// presentation layer over the query engine's stable output; the descending
// sort by total time happens here, not in the engine.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hpungsan/lapse/internal/query"
	"github.com/hpungsan/lapse/internal/timedata"
)

// noDataMessage is shown for an empty aggregate. An empty result is not an
// error.
const noDataMessage = "No time tracked in this range."

// barWidth is the widest bar rendered in chart mode.
const barWidth = 30

// Render produces the markdown report for a result, honoring the query's
// display mode.
func Render(res *query.Result) string {
	if len(res.Matches) == 0 {
		return noDataMessage
	}

	var b strings.Builder
	writeHeading(&b, res)

	switch res.Query.Display {
	case query.DisplaySummary:
		writeSummary(&b, res)
	case query.DisplayChart:
		writeChart(&b, res)
	default:
		writeTable(&b, res)
	}
	return b.String()
}

func writeHeading(b *strings.Builder, res *query.Result) {
	fmt.Fprintf(b, "## Time Report: %s to %s\n\n",
		res.Start.Format("Jan 2, 2006"), res.End.Format("Jan 2, 2006"))
	fmt.Fprintf(b, "**Total: %s** across %d %s\n\n",
		timedata.FormatDuration(res.TotalTime), len(res.Matches), plural(len(res.Matches), "entry", "entries"))
}

func writeSummary(b *strings.Builder, res *query.Result) {
	for _, g := range sortedGroups(res.Groups) {
		fmt.Fprintf(b, "- **%s**: %s (%d)\n", g.Key, timedata.FormatDuration(g.TotalTime), g.Count)
		for _, sub := range sortedGroups(g.Sub) {
			fmt.Fprintf(b, "  - %s: %s\n", sub.Key, timedata.FormatDuration(sub.TotalTime))
		}
	}
}

func writeTable(b *strings.Builder, res *query.Result) {
	if len(res.Groups) == 0 {
		b.WriteString("| Note | Entry | Start | Duration |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, m := range res.Matches {
			start := ""
			if m.Entry.StartTime != nil {
				start = timedata.FormatTimestamp(*m.Entry.StartTime)
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
				cell(m.Display), cell(m.Entry.Label), start, timedata.FormatDuration(m.Effective))
		}
		return
	}

	fmt.Fprintf(b, "| %s | Time | Entries |\n", columnTitle(res.Query.GroupBy))
	b.WriteString("| --- | --- | --- |\n")
	for _, g := range sortedGroups(res.Groups) {
		fmt.Fprintf(b, "| %s | %s | %d |\n", cell(g.Key), timedata.FormatDuration(g.TotalTime), g.Count)
		for _, sub := range sortedGroups(g.Sub) {
			fmt.Fprintf(b, "| &nbsp;&nbsp;%s | %s | %d |\n",
				cell(sub.Key), timedata.FormatDuration(sub.TotalTime), sub.Count)
		}
	}
}

func writeChart(b *strings.Builder, res *query.Result) {
	groups := res.Groups
	if len(groups) == 0 {
		// Chart without a group-by dimension charts per note.
		groups = query.GroupMatches(res.Matches, query.GroupNote, query.GroupNone)
	}
	groups = sortedGroups(groups)

	if res.Query.Chart == query.ChartPie {
		for _, g := range groups {
			pct := 0.0
			if res.TotalTime > 0 {
				pct = float64(g.TotalTime) / float64(res.TotalTime) * 100
			}
			fmt.Fprintf(b, "- %s: %.1f%% (%s)\n", g.Key, pct, timedata.FormatDuration(g.TotalTime))
		}
		return
	}

	var max int64
	for _, g := range groups {
		if g.TotalTime > max {
			max = g.TotalTime
		}
	}
	b.WriteString("```\n")
	for _, g := range groups {
		width := 0
		if max > 0 {
			width = int(g.TotalTime * barWidth / max)
		}
		if width == 0 && g.TotalTime > 0 {
			width = 1
		}
		fmt.Fprintf(b, "%-20s %s %s\n", g.Key, strings.Repeat("█", width), timedata.FormatDuration(g.TotalTime))
	}
	b.WriteString("```\n")
}

// sortedGroups returns the groups in descending total-time order without
// mutating the engine's slice. The sort is stable so equal totals keep
// first-seen order.
func sortedGroups(groups []*query.Group) []*query.Group {
	out := make([]*query.Group, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalTime > out[j].TotalTime
	})
	return out
}

func columnTitle(by query.GroupBy) string {
	switch by {
	case query.GroupProject:
		return "Project"
	case query.GroupDate:
		return "Date"
	case query.GroupTag:
		return "Tag"
	case query.GroupNote:
		return "Note"
	}
	return "Group"
}

// cell escapes pipes so free-text labels cannot break table rows.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
