// Package google writes event reports to a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"freela/internal/core"
	"freela/internal/log"
	"freela/internal/sheets"
)

// DefaultReportsSheet is the base sheet name; the event year is prefixed.
const DefaultReportsSheet = "Relatórios"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	reportsBase   string
}

var _ sheets.ReportWriter = (*Client)(nil)

// New wraps an existing Sheets service.
func New(svc *gsheet.Service, spreadsheetID, reportsSheet string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	reportsSheet = strings.TrimSpace(reportsSheet)
	if reportsSheet == "" {
		reportsSheet = DefaultReportsSheet
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, reportsBase: reportsSheet}, nil
}

// NewFromEnv builds a client from the environment.
// Required: GOOGLE_SPREADSHEET_ID and service account credentials
// (GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS).
// Optional: REPORTS_SHEET_NAME.
func NewFromEnv(ctx context.Context) (*Client, error) {
	return Dial(ctx, os.Getenv("GOOGLE_SPREADSHEET_ID"), os.Getenv("REPORTS_SHEET_NAME"))
}

// Dial creates the Sheets service with service account credentials taken
// from the environment.
func Dial(ctx context.Context, spreadsheetID, reportsSheet string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", spreadsheetID)
	return New(svc, spreadsheetID, reportsSheet)
}

func credentialsFromEnv() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

// AppendEventReport appends the report rows to "<year> <reports sheet>" and
// returns the range the API reports as written.
func (c *Client) AppendEventReport(ctx context.Context, r core.EventReport) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if r.Event.ID == "" {
		return "", errors.New("report without event")
	}

	sheet := yearPrefixedName(c.reportsBase, r.Event.Date.Year())
	rng := fmt.Sprintf("%s!A:H", sheet)
	vr := &gsheet.ValueRange{Values: sheets.ReportRows(r)}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append report to %s: %w", sheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Event report appended",
		log.FieldComponent, log.ComponentSheets,
		log.FieldEventID, r.Event.ID,
		"sheet", sheet,
		"rows", len(vr.Values),
		"range", ref)
	return ref, nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
