// Package csvfile backs the entry store with a local CSV file.
//
// The file carries a header row; reads map columns through that header,
// so a reordered file stays readable. Appends preserve the file's own
// column order. Concurrent writers on the same file are not coordinated
// here; the medium gives no such guarantee.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"timetrack/internal/tabular"
)

type Store struct {
	path string
}

var _ tabular.Store = (*Store)(nil)

// Open prepares a CSV-backed store at path, creating the file with the
// canonical header when it does not exist yet.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(tabular.ColumnOrder); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
		w.Flush()
		if err := errors.Join(w.Error(), f.Close()); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	return &Store{path: path}, nil
}

func (s *Store) ReadAll(_ context.Context) ([]tabular.Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", s.path, tabular.ErrUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate short rows, the store layer skips them

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w: %v", s.path, tabular.ErrUnavailable, err)
	}

	var rows []tabular.Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w: %v", s.path, tabular.ErrUnavailable, err)
		}
		row := make(tabular.Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) AppendRow(_ context.Context, row tabular.Row) error {
	header, err := s.readHeader()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w: %v", s.path, tabular.ErrUnavailable, err)
	}
	defer f.Close()

	rec := make([]string, len(header))
	for i, name := range header {
		rec[i] = row[name]
	}
	w := csv.NewWriter(f)
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("append to %s: %w: %v", s.path, tabular.ErrWriteConflict, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append to %s: %w: %v", s.path, tabular.ErrWriteConflict, err)
	}
	return nil
}

// readHeader returns the file's current header, falling back to the
// canonical order for a header-less (empty) file.
func (s *Store) readHeader() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", s.path, tabular.ErrUnavailable, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err == io.EOF {
		return tabular.ColumnOrder, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w: %v", s.path, tabular.ErrUnavailable, err)
	}
	return header, nil
}
