// Package memory is an in-memory backing store used by tests and as the
// default development backend.
package memory

import (
	"context"
	"sync"

	"timetrack/internal/tabular"
)

type Store struct {
	mu   sync.Mutex
	rows []tabular.Row
}

var _ tabular.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Seed pre-loads raw rows, bypassing validation. Intended for tests.
func Seed(rows ...tabular.Row) *Store {
	s := New()
	s.rows = append(s.rows, rows...)
	return s
}

func (s *Store) ReadAll(_ context.Context) ([]tabular.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tabular.Row, len(s.rows))
	for i, r := range s.rows {
		cp := make(tabular.Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out[i] = cp
	}
	return out, nil
}

func (s *Store) AppendRow(_ context.Context, row tabular.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(tabular.Row, len(row))
	for k, v := range row {
		cp[k] = v
	}
	s.rows = append(s.rows, cp)
	return nil
}

// Len returns the number of stored rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
