package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// Local backends
	CSVFilePath  string
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Authentication
	AppPasswordHash string
	SessionTTL      time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DataBackend: getEnv("DATA_BACKEND", "memory"),

		CSVFilePath:  getEnv("CSV_FILE_PATH", "./data/time_tracking_data.csv"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/timetrack.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Time_Tracking"),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		AppPasswordHash: getEnv("APP_PASSWORD_HASH", ""),
		SessionTTL:      getEnvDuration("SESSION_TTL", 2*time.Hour),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sheets", "csv", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "csv" && c.CSVFilePath == "" {
		errs = append(errs, "CSV file path cannot be empty when using csv backend")
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.DataBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errs = append(errs, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errs = append(errs, "Google Sheet name is required when using sheets backend")
		}
		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errs = append(errs, "service account credentials required for sheets backend (GOOGLE_SERVICE_ACCOUNT_FILE, GOOGLE_SERVICE_ACCOUNT_JSON, or GOOGLE_APPLICATION_CREDENTIALS)")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.AppPasswordHash != "" {
		hash := strings.ToLower(strings.TrimSpace(c.AppPasswordHash))
		if len(hash) != 64 {
			errs = append(errs, "invalid APP_PASSWORD_HASH: expected 64 hex characters (SHA-256)")
		} else if _, err := hex.DecodeString(hash); err != nil {
			errs = append(errs, "invalid APP_PASSWORD_HASH: not hexadecimal")
		}
	}

	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid session TTL %v: must be at most 24 hours", c.SessionTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
