package core

// Filter selects a subset of entries. Zero-value fields are ignored;
// the provided fields combine with logical AND.
type Filter struct {
	Project  string // exact, case-sensitive match
	Category string // exact, case-sensitive match
	From     Date   // inclusive lower bound
	To       Date   // inclusive upper bound
}

// IsZero reports whether the filter selects everything.
func (f Filter) IsZero() bool {
	return f.Project == "" && f.Category == "" && f.From.IsZero() && f.To.IsZero()
}

// Matches reports whether e satisfies every provided filter field.
func (f Filter) Matches(e TimeEntry) bool {
	if f.Project != "" && e.Project != f.Project {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if !f.From.IsZero() && e.Date.Time.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && e.Date.Time.After(f.To.Time) {
		return false
	}
	return true
}

// Apply returns the entries matching f, preserving input order.
func (f Filter) Apply(entries []TimeEntry) []TimeEntry {
	if f.IsZero() {
		return entries
	}
	out := make([]TimeEntry, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
