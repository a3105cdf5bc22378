// Package backend chooses the tabular backing store from configuration,
// so the higher-level entry store stays identical across media.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"timetrack/internal/storage"
	"timetrack/internal/tabular/csvfile"
	gsheet "timetrack/internal/tabular/google"
	"timetrack/internal/tabular/memory"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SheetsBackend:
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets backend")
		return &Result{Store: cli}, nil

	case CSVBackend:
		s, err := csvfile.Open(config.CSVFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV store: %w", err)
		}
		f.logger.Info("Initialized CSV backend", "path", config.CSVFilePath)
		return &Result{Store: s}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	default:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: memory.New()}, nil
	}
}
