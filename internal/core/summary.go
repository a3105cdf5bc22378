package core

import "fmt"

const (
	ByProject         GroupBy = "project"
	ByCategory        GroupBy = "category"
	ByProjectCategory GroupBy = "project_category"
	ByDay             GroupBy = "day"
	ByWeek            GroupBy = "week"
	ByMonth           GroupBy = "month"
	ByYear            GroupBy = "year"
)

type (
	// GroupBy is the dimension Summarize aggregates entries on.
	GroupBy string

	// Aggregate holds the per-group totals of a summary.
	Aggregate struct {
		TotalHours float64
		Count      int
		AvgHours   float64
	}

	// GroupTotal pairs a group key with its aggregate, ordered by
	// first appearance in the input.
	GroupTotal struct {
		Key string
		Aggregate
	}

	// Summary is the result of aggregating a set of entries.
	Summary struct {
		Groups     []GroupTotal
		GrandTotal float64
	}
)

// IsValid returns true if gb is a known grouping dimension.
func (gb GroupBy) IsValid() bool {
	switch gb {
	case ByProject, ByCategory, ByProjectCategory, ByDay, ByWeek, ByMonth, ByYear:
		return true
	default:
		return false
	}
}

// Key returns the group key of e under gb. Date buckets are
// calendar-aligned; ISO weeks start on Monday.
func (gb GroupBy) Key(e TimeEntry) string {
	switch gb {
	case ByProject:
		return e.Project
	case ByCategory:
		return e.Category
	case ByProjectCategory:
		return e.Project + " / " + e.Category
	case ByDay:
		return e.Date.String()
	case ByWeek:
		year, week := e.Date.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case ByMonth:
		return e.Date.Format("2006-01")
	case ByYear:
		return e.Date.Format("2006")
	default:
		return ""
	}
}

// Summarize aggregates entries by the given dimension. Each entry lands in
// exactly one group; groups keep first-seen order. An empty input yields a
// summary with no groups and a zero grand total.
func Summarize(entries []TimeEntry, groupBy GroupBy) Summary {
	var s Summary
	index := make(map[string]int)
	for _, e := range entries {
		key := groupBy.Key(e)
		i, ok := index[key]
		if !ok {
			i = len(s.Groups)
			index[key] = i
			s.Groups = append(s.Groups, GroupTotal{Key: key})
		}
		s.Groups[i].TotalHours += e.DurationHours
		s.Groups[i].Count++
		s.GrandTotal += e.DurationHours
	}
	for i := range s.Groups {
		s.Groups[i].AvgHours = s.Groups[i].TotalHours / float64(s.Groups[i].Count)
	}
	return s
}

// Percentage returns the share of the grand total held by g, in percent.
// A zero grand total yields 0 rather than a division fault.
func (s Summary) Percentage(g GroupTotal) float64 {
	if s.GrandTotal == 0 {
		return 0
	}
	return g.TotalHours / s.GrandTotal * 100
}

// ByKey returns the aggregate for key and whether it exists.
func (s Summary) ByKey(key string) (Aggregate, bool) {
	for _, g := range s.Groups {
		if g.Key == key {
			return g.Aggregate, true
		}
	}
	return Aggregate{}, false
}
