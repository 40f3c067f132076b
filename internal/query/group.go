package query

import (
	"strings"

	"github.com/hpungsan/lapse/internal/timedata"
)

// Sentinel group keys for entries with no project or no tag.
const (
	NoProject = "no project"
	NoTag     = "no tag"
)

// dateKeyLayout renders a group key like "Jan 7, 2026".
const dateKeyLayout = "Jan 2, 2006"

// MatchedEntry is one entry that passed the query filters, together with the
// document context and the effective duration it contributes.
type MatchedEntry struct {
	Entry   timedata.TimeEntry
	DocID   string
	Display string
	Project string
	DocTags []string

	// Effective is the aggregated duration in milliseconds: the stored
	// duration for completed entries, stored plus live elapsed for active
	// ones.
	Effective int64
}

// Group is one aggregation bucket. Groups preserve first-seen order; callers
// that want largest-first presentation sort on TotalTime themselves.
type Group struct {
	Key       string
	TotalTime int64
	Count     int
	Entries   []MatchedEntry
	Sub       []*Group
}

// GroupMatches buckets matches by the given dimension, optionally
// sub-bucketing each group by a second dimension.
func GroupMatches(matches []MatchedEntry, by, subBy GroupBy) []*Group {
	groups := bucket(matches, by)
	if subBy != GroupNone {
		for _, g := range groups {
			g.Sub = bucket(g.Entries, subBy)
		}
	}
	return groups
}

func bucket(matches []MatchedEntry, by GroupBy) []*Group {
	var groups []*Group
	index := make(map[string]*Group)
	for _, m := range matches {
		key := groupKey(&m, by)
		g, ok := index[key]
		if !ok {
			g = &Group{Key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.TotalTime += m.Effective
		g.Count++
		g.Entries = append(g.Entries, m)
	}
	return groups
}

func groupKey(m *MatchedEntry, by GroupBy) string {
	switch by {
	case GroupProject:
		if m.Project == "" {
			return NoProject
		}
		if i := strings.LastIndex(m.Project, "/"); i >= 0 {
			return m.Project[i+1:]
		}
		return m.Project
	case GroupDate:
		// StartTime is non-nil for every match.
		return m.Entry.StartTime.Format(dateKeyLayout)
	case GroupTag:
		if len(m.Entry.Tags) > 0 {
			return "#" + m.Entry.Tags[0]
		}
		if len(m.DocTags) > 0 {
			return "#" + m.DocTags[0]
		}
		return NoTag
	case GroupNote:
		return m.Display
	}
	return ""
}
