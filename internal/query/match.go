package query

import (
	"time"

	"github.com/hpungsan/lapse/internal/timedata"
)

// DocContext carries the per-document fields entry matching reads: the
// resolved project, document-level tags, and the display name.
type DocContext struct {
	ID      string
	Display string
	Project string
	Tags    []string
}

// Match reports whether an entry satisfies the query's filters within the
// resolved [start, end] range (inclusive both ends). Glob exclusion is the
// caller's job; a document that reaches Match is already in scope.
func Match(e *timedata.TimeEntry, doc DocContext, q *Query, start, end time.Time) bool {
	// A never-started entry never matches; completed and active ones are
	// both eligible.
	if e.StartTime == nil {
		return false
	}
	if e.StartTime.Before(start) || e.StartTime.After(end) {
		return false
	}

	if q.Project != "" {
		if doc.Project == "" || !containsFold(doc.Project, q.Project) {
			return false
		}
	}
	if q.Note != "" && !containsFold(doc.Display, q.Note) {
		return false
	}
	if q.Tag != "" && !tagMatch(doc.Tags, e.Tags, q.Tag) {
		return false
	}
	return true
}

func tagMatch(docTags, entryTags []string, filter string) bool {
	for _, t := range docTags {
		if containsFold(t, filter) {
			return true
		}
	}
	for _, t := range entryTags {
		if containsFold(t, filter) {
			return true
		}
	}
	return false
}
