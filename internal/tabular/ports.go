// Package tabular defines the port between the entry store and its
// backing media. Every backend exposes the same contract: read all rows
// back in insertion order, append a single row. Rows travel as
// header-keyed maps so that column reordering in the underlying
// sheet or file never breaks reads.
package tabular

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"timetrack/internal/core"
)

// Column names shared by every backend. ColumnOrder is the canonical
// header used when a backend has to create the header itself.
const (
	ColDate        = "date"
	ColProject     = "project"
	ColCategory    = "category"
	ColDuration    = "duration_hours"
	ColDescription = "description"
)

// ColumnOrder is the canonical column sequence for newly created media
// and for CSV export.
var ColumnOrder = []string{ColDate, ColProject, ColCategory, ColDuration, ColDescription}

var (
	// ErrUnavailable signals the backing medium could not be reached
	// or parsed. Callers surface it; nothing in this layer retries.
	ErrUnavailable = errors.New("backing store unavailable")

	// ErrWriteConflict signals the backing medium rejected or raced
	// a write.
	ErrWriteConflict = errors.New("backing store write conflict")
)

type (
	// Row is one raw record keyed by column header.
	Row map[string]string

	// Source reads every row of the backing medium in insertion order.
	Source interface {
		ReadAll(ctx context.Context) ([]Row, error)
	}

	// Sink appends a single row to the backing medium.
	Sink interface {
		AppendRow(ctx context.Context, row Row) error
	}

	// Store is a full read/append backing store.
	Store interface {
		Source
		Sink
	}
)

// FromEntry converts a validated entry into its row form.
func FromEntry(e core.TimeEntry) Row {
	return Row{
		ColDate:        e.Date.String(),
		ColProject:     e.Project,
		ColCategory:    e.Category,
		// Shortest exact form, so the value read back equals the value stored.
		ColDuration:    strconv.FormatFloat(e.DurationHours, 'f', -1, 64),
		ColDescription: e.Description,
	}
}

// ToEntry parses a raw row into a TimeEntry. A missing required column
// or an unparseable date/duration is a malformed row; the caller decides
// whether to skip or fail.
func ToEntry(r Row) (core.TimeEntry, error) {
	date, err := core.ParseDate(r[ColDate])
	if err != nil {
		return core.TimeEntry{}, err
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(r[ColDuration]), 64)
	if err != nil {
		return core.TimeEntry{}, core.ErrInvalidDuration
	}
	e := core.TimeEntry{
		Date:          date,
		Project:       r[ColProject],
		Category:      r[ColCategory],
		DurationHours: dur,
		Description:   r[ColDescription],
	}.Normalize()
	return e, e.Validate()
}
