package query

import (
	"time"

	"github.com/hpungsan/lapse/internal/timedata"
)

// ResolveDateRange computes the inclusive [start, end] window the query
// covers. Named periods are computed from now; otherwise From/To are each
// interpreted as a whole day, defaulting to today. An unparsable From/To
// value degrades to today rather than failing.
func ResolveDateRange(q *Query, now time.Time, firstDayOfWeek int) (time.Time, time.Time) {
	switch q.Period {
	case "today":
		return startOfDay(now), endOfDay(now)
	case "thisWeek":
		// The running periods end at now, not end of day: an entry
		// future-dated later today is not yet "this week".
		return startOfWeek(now, firstDayOfWeek), now
	case "thisMonth":
		return startOfMonth(now), now
	case "lastWeek":
		weekStart := startOfWeek(now, firstDayOfWeek)
		return weekStart.AddDate(0, 0, -7), endOfDay(weekStart.AddDate(0, 0, -1))
	case "lastMonth":
		thisMonth := startOfMonth(now)
		return thisMonth.AddDate(0, -1, 0), endOfDay(thisMonth.AddDate(0, 0, -1))
	}

	from := now
	if t := timedata.ParseTimestamp(q.From); t != nil {
		from = *t
	}
	to := now
	if t := timedata.ParseTimestamp(q.To); t != nil {
		to = *t
	}
	return startOfDay(from), endOfDay(to)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay is 23:59:59.999 local; range checks are inclusive, so the first
// millisecond of the next day falls outside.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// startOfWeek is the most recent occurrence of firstDay (0 = Sunday) at or
// before t, at midnight.
func startOfWeek(t time.Time, firstDay int) time.Time {
	day := startOfDay(t)
	back := (int(day.Weekday()) - firstDay + 7) % 7
	return day.AddDate(0, 0, -back)
}
