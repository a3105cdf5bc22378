package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

// DateLayout is the canonical wire form of an entry date.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar date with no time component.
	Date struct {
		time.Time
	}

	// TimeEntry is one immutable record of hours worked on a
	// project/category on a given date.
	TimeEntry struct {
		Date          Date
		Project       string
		Category      string
		DurationHours float64
		Description   string
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyProject    = errors.New("empty project")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidDuration = errors.New("duration must be greater than zero")
)

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String returns the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Normalize returns a copy of e with string fields trimmed and the date
// truncated to midnight UTC, ready for validation and persistence.
func (e TimeEntry) Normalize() TimeEntry {
	e.Project = strings.TrimSpace(e.Project)
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	if !e.Date.IsZero() {
		y, m, d := e.Date.Date()
		e.Date = NewDate(y, int(m), d)
	}
	return e
}

// Validate checks the entry invariants in a fixed order:
// date, project, category, duration. The first violation wins.
func (e TimeEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Project) == "" {
		return ErrEmptyProject
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	// NaN fails every comparison, so <= 0 alone would let it through.
	if e.DurationHours <= 0 || math.IsNaN(e.DurationHours) || math.IsInf(e.DurationHours, 1) {
		return ErrInvalidDuration
	}
	return nil
}

// IsValidationError reports whether err is one of the entry invariant errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrEmptyProject) ||
		errors.Is(err, ErrEmptyCategory) ||
		errors.Is(err, ErrInvalidDuration)
}
