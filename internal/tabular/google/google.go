// Package google backs the entry store with a Google Sheets worksheet
// accessed through a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"timetrack/internal/tabular"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ tabular.Store = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Time_Tracking").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Time_Tracking"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	c := &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
	if err := c.ensureHeader(ctx); err != nil {
		slog.WarnContext(ctx, "Could not verify sheet header", "sheet", sheetName, "error", err)
	}
	return c, nil
}

// newSheetsService initializes a Sheets Service using service account
// credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ensureHeader writes the canonical header row when the sheet is empty.
// An existing header is left alone: reads map columns by name, so a
// reordered sheet keeps working.
func (c *Client) ensureHeader(ctx context.Context) error {
	rng := fmt.Sprintf("%s!1:1", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}
	vr := &gsheet.ValueRange{Values: [][]any{headerValues()}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}

func headerValues() []any {
	out := make([]any, len(tabular.ColumnOrder))
	for i, name := range tabular.ColumnOrder {
		out[i] = name
	}
	return out
}

func (c *Client) ReadAll(ctx context.Context) ([]tabular.Row, error) {
	if c.svc == nil {
		return nil, fmt.Errorf("sheets service not initialized: %w", tabular.ErrUnavailable)
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w: %v", c.sheetName, tabular.ErrUnavailable, err)
	}
	return rowsFromValues(resp.Values), nil
}

func (c *Client) AppendRow(ctx context.Context, row tabular.Row) error {
	if c.svc == nil {
		return fmt.Errorf("sheets service not initialized: %w", tabular.ErrUnavailable)
	}
	header, err := c.liveHeader(ctx)
	if err != nil {
		return err
	}
	rec := make([]any, len(header))
	for i, name := range header {
		rec[i] = row[name]
	}
	vr := &gsheet.ValueRange{Values: [][]any{rec}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetName, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 409 {
			return fmt.Errorf("append to sheet %s: %w: %v", c.sheetName, tabular.ErrWriteConflict, err)
		}
		return fmt.Errorf("append to sheet %s: %w: %v", c.sheetName, tabular.ErrUnavailable, err)
	}
	return nil
}

// liveHeader re-reads row 1 so appends follow the sheet's current
// column order even after a manual reorder.
func (c *Client) liveHeader(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!1:1", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read header row of %s: %w: %v", c.sheetName, tabular.ErrUnavailable, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return tabular.ColumnOrder, nil
	}
	return toStrings(resp.Values[0]), nil
}
