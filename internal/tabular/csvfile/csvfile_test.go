package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"timetrack/internal/tabular"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entries.csv")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s, path
}

func TestOpenCreatesHeader(t *testing.T) {
	_, path := newStore(t)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "date,project,category,duration_hours,description" {
		t.Fatalf("unexpected header: %q", got)
	}
}

func TestAppendAndReadAll(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	row := tabular.Row{
		tabular.ColDate:        "2025-03-05",
		tabular.ColProject:     "Website",
		tabular.ColCategory:    "coding",
		tabular.ColDuration:    "1.25",
		tabular.ColDescription: "landing page",
	}
	if err := s.AppendRow(ctx, row); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	for k, v := range row {
		if rows[0][k] != v {
			t.Fatalf("column %s: expected %q, got %q", k, v, rows[0][k])
		}
	}
}

func TestQuotedFieldsSurviveRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	row := tabular.Row{
		tabular.ColDate:        "2025-03-05",
		tabular.ColProject:     `Client "A", retainer`,
		tabular.ColCategory:    "coding",
		tabular.ColDuration:    "2.00",
		tabular.ColDescription: "line one\nline two",
	}
	if err := s.AppendRow(ctx, row); err != nil {
		t.Fatalf("append: %v", err)
	}
	rows, err := s.ReadAll(ctx)
	if err != nil || len(rows) != 1 {
		t.Fatalf("read: rows=%v err=%v", rows, err)
	}
	if rows[0][tabular.ColProject] != row[tabular.ColProject] {
		t.Fatalf("quoting broken: %q", rows[0][tabular.ColProject])
	}
	if rows[0][tabular.ColDescription] != row[tabular.ColDescription] {
		t.Fatalf("newline quoting broken: %q", rows[0][tabular.ColDescription])
	}
}

func TestReorderedHeaderStillReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.csv")
	content := "project,date,duration_hours,category,description\n" +
		"Website,2025-03-05,1.50,coding,notes\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rows, err := s.ReadAll(context.Background())
	if err != nil || len(rows) != 1 {
		t.Fatalf("read: rows=%v err=%v", rows, err)
	}
	if rows[0][tabular.ColDate] != "2025-03-05" || rows[0][tabular.ColProject] != "Website" {
		t.Fatalf("header mapping broken: %v", rows[0])
	}

	// Appends must follow the file's own column order.
	err = s.AppendRow(context.Background(), tabular.Row{
		tabular.ColDate:     "2025-03-06",
		tabular.ColProject:  "App",
		tabular.ColCategory: "meeting",
		tabular.ColDuration: "0.50",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	rows, _ = s.ReadAll(context.Background())
	if len(rows) != 2 || rows[1][tabular.ColProject] != "App" || rows[1][tabular.ColDate] != "2025-03-06" {
		t.Fatalf("append against reordered header broken: %v", rows)
	}
}

func TestShortRowsTolerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.csv")
	content := "date,project,category,duration_hours,description\n" +
		"2025-03-05,Website,coding\n" + // missing columns
		"2025-03-06,App,meeting,1.00,ok\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rows, err := s.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("short row aborted the read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 raw rows, got %d", len(rows))
	}
	if rows[0][tabular.ColDuration] != "" {
		t.Fatalf("missing column should map to empty, got %q", rows[0][tabular.ColDuration])
	}
}

func TestReadAllMissingFile(t *testing.T) {
	s := &Store{path: filepath.Join(t.TempDir(), "gone.csv")}
	_, err := s.ReadAll(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
