package core

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarizeByProject(t *testing.T) {
	entries := []TimeEntry{
		{Date: NewDate(2025, 3, 1), Project: "P1", Category: "coding", DurationHours: 2.0},
		{Date: NewDate(2025, 3, 2), Project: "P1", Category: "coding", DurationHours: 1.5},
		{Date: NewDate(2025, 3, 3), Project: "P2", Category: "meeting", DurationHours: 1.0},
	}
	s := Summarize(entries, ByProject)

	if len(s.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(s.Groups))
	}
	p1, ok := s.ByKey("P1")
	if !ok || !almostEqual(p1.TotalHours, 3.5) || p1.Count != 2 || !almostEqual(p1.AvgHours, 1.75) {
		t.Fatalf("unexpected P1 aggregate: %+v", p1)
	}
	p2, ok := s.ByKey("P2")
	if !ok || !almostEqual(p2.TotalHours, 1.0) || p2.Count != 1 || !almostEqual(p2.AvgHours, 1.0) {
		t.Fatalf("unexpected P2 aggregate: %+v", p2)
	}
	if !almostEqual(s.GrandTotal, 4.5) {
		t.Fatalf("unexpected grand total: %v", s.GrandTotal)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, ByProject)
	if len(s.Groups) != 0 || s.GrandTotal != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
	// Percentage on an empty set must not fault.
	if got := s.Percentage(GroupTotal{}); got != 0 {
		t.Fatalf("expected 0%%, got %v", got)
	}
}

func TestSummarizeGroupKeys(t *testing.T) {
	e := TimeEntry{Date: NewDate(2025, 3, 5), Project: "P", Category: "c", DurationHours: 1}

	cases := []struct {
		groupBy GroupBy
		want    string
	}{
		{ByProject, "P"},
		{ByCategory, "c"},
		{ByProjectCategory, "P / c"},
		{ByDay, "2025-03-05"},
		{ByWeek, "2025-W10"},
		{ByMonth, "2025-03"},
		{ByYear, "2025"},
	}
	for _, tc := range cases {
		if got := tc.groupBy.Key(e); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.groupBy, tc.want, got)
		}
	}
}

func TestISOWeekStartsMonday(t *testing.T) {
	// 2025-03-09 is a Sunday, 2025-03-10 the following Monday; they
	// must land in different week buckets.
	sunday := TimeEntry{Date: NewDate(2025, 3, 9), Project: "P", Category: "c", DurationHours: 1}
	monday := TimeEntry{Date: NewDate(2025, 3, 10), Project: "P", Category: "c", DurationHours: 1}

	s := Summarize([]TimeEntry{sunday, monday}, ByWeek)
	if len(s.Groups) != 2 {
		t.Fatalf("expected Sunday and Monday in distinct ISO weeks, got %+v", s.Groups)
	}
	if s.Groups[0].Key != "2025-W10" || s.Groups[1].Key != "2025-W11" {
		t.Fatalf("unexpected week labels: %+v", s.Groups)
	}
}

func TestYearBucketAcrossISOBoundary(t *testing.T) {
	// 2024-12-30 belongs to ISO week 2025-W01 but calendar year 2024.
	e := TimeEntry{Date: NewDate(2024, 12, 30), Project: "P", Category: "c", DurationHours: 1}
	if got := ByYear.Key(e); got != "2024" {
		t.Fatalf("year bucket must be calendar-aligned, got %q", got)
	}
	if got := ByWeek.Key(e); got != "2025-W01" {
		t.Fatalf("week bucket must be ISO-aligned, got %q", got)
	}
}

func TestPercentage(t *testing.T) {
	entries := []TimeEntry{
		{Date: NewDate(2025, 3, 1), Project: "P1", Category: "c", DurationHours: 3},
		{Date: NewDate(2025, 3, 2), Project: "P2", Category: "c", DurationHours: 1},
	}
	s := Summarize(entries, ByProject)
	if got := s.Percentage(s.Groups[0]); !almostEqual(got, 75) {
		t.Fatalf("expected 75%%, got %v", got)
	}
	if got := s.Percentage(s.Groups[1]); !almostEqual(got, 25) {
		t.Fatalf("expected 25%%, got %v", got)
	}
}

func TestGroupByIsValid(t *testing.T) {
	for _, gb := range []GroupBy{ByProject, ByCategory, ByProjectCategory, ByDay, ByWeek, ByMonth, ByYear} {
		if !gb.IsValid() {
			t.Fatalf("expected %s to be valid", gb)
		}
	}
	if GroupBy("quarter").IsValid() {
		t.Fatal("unexpected valid grouping")
	}
}
