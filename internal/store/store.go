// Package store implements the entry store: it validates and persists
// time entries and answers filter, unique-value, and export queries
// against a pluggable tabular backing store.
package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"

	"timetrack/internal/core"
	"timetrack/internal/tabular"
)

type EntryStore struct {
	backend tabular.Store
}

func New(backend tabular.Store) *EntryStore {
	return &EntryStore{backend: backend}
}

// AddEntry normalizes and validates the candidate, then appends exactly
// one row to the backing store. Validation happens before any I/O, so a
// rejected candidate leaves the store untouched.
func (s *EntryStore) AddEntry(ctx context.Context, candidate core.TimeEntry) (core.TimeEntry, error) {
	e := candidate.Normalize()
	if err := e.Validate(); err != nil {
		return core.TimeEntry{}, err
	}
	if err := s.backend.AppendRow(ctx, tabular.FromEntry(e)); err != nil {
		return core.TimeEntry{}, fmt.Errorf("append entry: %w", err)
	}
	slog.InfoContext(ctx, "Entry saved",
		"date", e.Date.String(),
		"project", e.Project,
		"category", e.Category,
		"duration_hours", e.DurationHours)
	return e, nil
}

// ListEntries re-reads the backing store and returns the entries matching
// the filter, in insertion order. Malformed rows are skipped with a
// warning; one bad row never hides the good ones.
func (s *EntryStore) ListEntries(ctx context.Context, f core.Filter) ([]core.TimeEntry, error) {
	rows, err := s.backend.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	entries := make([]core.TimeEntry, 0, len(rows))
	for i, row := range rows {
		e, err := tabular.ToEntry(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed row", "row", i+1, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return f.Apply(entries), nil
}

// Projects returns the sorted unique project names across all entries.
func (s *EntryStore) Projects(ctx context.Context) ([]string, error) {
	return s.uniqueValues(ctx, func(e core.TimeEntry) string { return e.Project })
}

// Categories returns the sorted unique category names across all entries.
func (s *EntryStore) Categories(ctx context.Context) ([]string, error) {
	return s.uniqueValues(ctx, func(e core.TimeEntry) string { return e.Category })
}

func (s *EntryStore) uniqueValues(ctx context.Context, key func(core.TimeEntry) string) ([]string, error) {
	entries, err := s.ListEntries(ctx, core.Filter{})
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var out []string
	for _, e := range entries {
		v := key(e)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// ExportCSV serializes the entries as an RFC 4180 CSV document with the
// canonical header, preserving input order.
func ExportCSV(entries []core.TimeEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tabular.ColumnOrder); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		row := tabular.FromEntry(e)
		rec := make([]string, len(tabular.ColumnOrder))
		for i, name := range tabular.ColumnOrder {
			rec[i] = row[name]
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
