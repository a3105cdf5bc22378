package google

import (
	"testing"

	"timetrack/internal/tabular"
)

func TestRowsFromValues(t *testing.T) {
	values := [][]interface{}{
		{"date", "project", "category", "duration_hours", "description"},
		{"2025-03-05", "Website", "coding", "1.25", "landing page"},
		{" 2025-03-06 ", " App ", "meeting", 0.5, ""},
	}
	rows := rowsFromValues(values)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][tabular.ColProject] != "Website" || rows[0][tabular.ColDuration] != "1.25" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	// Cells come back trimmed and stringified.
	if rows[1][tabular.ColDate] != "2025-03-06" || rows[1][tabular.ColProject] != "App" {
		t.Fatalf("cells not trimmed: %v", rows[1])
	}
	if rows[1][tabular.ColDuration] != "0.5" {
		t.Fatalf("numeric cell not stringified: %v", rows[1])
	}
}

func TestRowsFromValuesDropsEmptyRows(t *testing.T) {
	values := [][]interface{}{
		{"date", "project", "category", "duration_hours", "description"},
		{"", "", "", "", ""},
		{"2025-03-05", "Website", "coding", "1.00", ""},
		{},
	}
	rows := rowsFromValues(values)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after dropping blanks, got %d", len(rows))
	}
}

func TestRowsFromValuesShortRows(t *testing.T) {
	values := [][]interface{}{
		{"date", "project", "category", "duration_hours", "description"},
		{"2025-03-05", "Website", "coding"},
	}
	rows := rowsFromValues(values)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if _, ok := rows[0][tabular.ColDuration]; ok {
		t.Fatalf("short row must not carry trailing columns: %v", rows[0])
	}
}

func TestRowsFromValuesHeaderOnly(t *testing.T) {
	values := [][]interface{}{
		{"date", "project", "category", "duration_hours", "description"},
	}
	if rows := rowsFromValues(values); rows != nil {
		t.Fatalf("expected nil for header-only sheet, got %v", rows)
	}
	if rows := rowsFromValues(nil); rows != nil {
		t.Fatalf("expected nil for empty sheet, got %v", rows)
	}
}
