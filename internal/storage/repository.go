// Package storage backs the entry store with a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"timetrack/internal/tabular"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ tabular.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReadAll returns every stored row in insertion order.
func (r *SQLiteRepository) ReadAll(ctx context.Context) ([]tabular.Row, error) {
	const q = `SELECT date, project, category, duration_hours, description
	           FROM entries ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w: %v", tabular.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []tabular.Row
	for rows.Next() {
		var date, project, category, duration, description string
		if err := rows.Scan(&date, &project, &category, &duration, &description); err != nil {
			return nil, fmt.Errorf("scan entry: %w: %v", tabular.ErrUnavailable, err)
		}
		out = append(out, tabular.Row{
			tabular.ColDate:        date,
			tabular.ColProject:     project,
			tabular.ColCategory:    category,
			tabular.ColDuration:    duration,
			tabular.ColDescription: description,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w: %v", tabular.ErrUnavailable, err)
	}
	return out, nil
}

// AppendRow inserts one row. SQLite serializes writers itself; a busy
// database surfaces as a write conflict.
func (r *SQLiteRepository) AppendRow(ctx context.Context, row tabular.Row) error {
	const q = `INSERT INTO entries (date, project, category, duration_hours, description)
	           VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		row[tabular.ColDate],
		row[tabular.ColProject],
		row[tabular.ColCategory],
		row[tabular.ColDuration],
		row[tabular.ColDescription],
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w: %v", tabular.ErrWriteConflict, err)
	}
	return nil
}
