// Package query evaluates filter/group specifications over the document
// corpus and produces aggregate results for reporting.
package query

import (
	"strings"

	"github.com/hpungsan/lapse/internal/errors"
)

// GroupBy names an aggregation dimension.
type GroupBy string

const (
	GroupNone    GroupBy = ""
	GroupProject GroupBy = "project"
	GroupDate    GroupBy = "date"
	GroupTag     GroupBy = "tag"
	GroupNote    GroupBy = "note"
)

// Display selects the rendered output shape.
type Display string

const (
	DisplayTable   Display = "table"
	DisplaySummary Display = "summary"
	DisplayChart   Display = "chart"
)

// Chart selects the chart kind when Display is chart.
type Chart string

const (
	ChartBar  Chart = "bar"
	ChartPie  Chart = "pie"
	ChartNone Chart = "none"
)

// periods maps lowercased period names to their canonical spelling.
var periods = map[string]string{
	"today":     "today",
	"thisweek":  "thisWeek",
	"thismonth": "thisMonth",
	"lastweek":  "lastWeek",
	"lastmonth": "lastMonth",
}

// Query is an immutable filter/group/display specification. Project, Tag and
// Note are case-insensitive substring filters; Period or From/To select the
// date range.
type Query struct {
	Project string
	Tag     string
	Note    string
	From    string
	To      string
	Period  string

	GroupBy    GroupBy
	SubGroupBy GroupBy

	Display Display
	Chart   Chart
}

// ParseQuery builds a Query from line-oriented "key: value" text. Keys are
// order-independent and unknown keys are ignored; recognized keys with
// invalid values are an error. A second group-by dimension may be given via
// "sub-group-by" or comma-separated ("group-by: project, date").
func ParseQuery(text string) (*Query, error) {
	q := &Query{Display: DisplayTable, Chart: ChartNone}

	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = cleanValue(value)
		if value == "" {
			continue
		}

		switch key {
		case "project":
			q.Project = value
		case "tag":
			q.Tag = value
		case "note":
			q.Note = value
		case "from":
			q.From = value
		case "to":
			q.To = value
		case "period":
			canonical, ok := periods[strings.ToLower(value)]
			if !ok {
				return nil, errors.NewInvalidQuery("unknown period: " + value)
			}
			q.Period = canonical
		case "group-by":
			// A second dimension may ride along comma-separated.
			first, second, _ := strings.Cut(value, ",")
			by, err := parseGroupBy(first)
			if err != nil {
				return nil, err
			}
			q.GroupBy = by
			if strings.TrimSpace(second) != "" {
				sub, err := parseGroupBy(second)
				if err != nil {
					return nil, err
				}
				q.SubGroupBy = sub
			}
		case "sub-group-by":
			sub, err := parseGroupBy(value)
			if err != nil {
				return nil, err
			}
			q.SubGroupBy = sub
		case "display":
			switch Display(strings.ToLower(value)) {
			case DisplayTable, DisplaySummary, DisplayChart:
				q.Display = Display(strings.ToLower(value))
			default:
				return nil, errors.NewInvalidQuery("unknown display mode: " + value)
			}
		case "chart":
			switch Chart(strings.ToLower(value)) {
			case ChartBar, ChartPie, ChartNone:
				q.Chart = Chart(strings.ToLower(value))
			default:
				return nil, errors.NewInvalidQuery("unknown chart kind: " + value)
			}
		}
	}

	return q, nil
}

func parseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(strings.ToLower(strings.TrimSpace(s))) {
	case GroupProject:
		return GroupProject, nil
	case GroupDate:
		return GroupDate, nil
	case GroupTag:
		return GroupTag, nil
	case GroupNote:
		return GroupNote, nil
	}
	return GroupNone, errors.NewInvalidQuery("unknown group-by dimension: " + s)
}

// cleanValue strips wiki-link brackets, surrounding quotes, and a leading
// '#' from a query value.
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[[") && strings.HasSuffix(s, "]]") && len(s) >= 4 {
		s = s[2 : len(s)-2]
	}
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimPrefix(s, "#")
	return strings.TrimSpace(s)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
