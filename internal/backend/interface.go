package backend

import (
	"context"

	"timetrack/internal/tabular"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result contains the backing store and an optional cleanup function.
type Result struct {
	Store   tabular.Store
	Cleanup CleanupFunc
}

// Factory creates backing stores based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// csv specific
	CSVFilePath string

	// sqlite specific
	SQLiteDBPath string
}

// Type identifies a backing-store implementation.
type Type string

const (
	MemoryBackend Type = "memory"
	SheetsBackend Type = "sheets"
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SheetsBackend, CSVBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
