package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"smartpay/internal/core"
	"smartpay/internal/storage"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultSheetName is the tab holding the payments table.
const DefaultSheetName = "Payments"

var _ storage.PaymentStore = (*Client)(nil)

// Client stores the collection in one tab of a Google spreadsheet:
// a header row followed by one row per payment.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates a Sheets store with service account credentials.
// credentialsJSON wins over credentialsFile; when both are empty
// GOOGLE_APPLICATION_CREDENTIALS is consulted.
func New(ctx context.Context, spreadsheetID, sheetName, credentialsJSON, credentialsFile string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	svc, err := newSheetsService(ctx, credentialsJSON, credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, credentialsJSON, credentialsFile string) (*gsheet.Service, error) {
	credentialsJSON = strings.TrimSpace(credentialsJSON)
	credentialsFile = strings.TrimSpace(credentialsFile)
	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var creds []byte
	switch {
	case credentialsJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		creds = []byte(credentialsJSON)
	case credentialsFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", credentialsFile)
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		creds = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// dataRange covers every payment row below the header.
func (c *Client) dataRange() string {
	return fmt.Sprintf("%s!A2:D", c.sheetName)
}

// staleRange covers every row below the first written rows.
func (c *Client) staleRange(written int) string {
	return fmt.Sprintf("%s!A%d:D", c.sheetName, written+1)
}

// Load implements storage.PaymentStore
func (c *Client) Load(ctx context.Context) ([]core.Payment, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.dataRange()).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read payments range: %w", err)
	}
	return parseRows(resp.Values), nil
}

// Save implements storage.PaymentStore. The new rows are written first and
// only then are leftover rows below them cleared, so a failed write leaves the
// previous document in place.
func (c *Client) Save(ctx context.Context, payments []core.Payment) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows := toRows(payments)
	rng := fmt.Sprintf("%s!A1:D%d", c.sheetName, len(rows))
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("write payments range: %w", err)
	}

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, c.staleRange(len(rows)), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear stale payment rows: %w", err)
	}

	slog.DebugContext(ctx, "Payments saved to Google Sheets",
		"sheet", c.sheetName,
		"count", len(payments))
	return nil
}
