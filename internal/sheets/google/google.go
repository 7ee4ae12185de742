// Package google exports payoff schedules to a Google Spreadsheet using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ports "github.com/prabavijay/financeflowapp2/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	planSheet     string
}

var _ ports.PlanWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: PLAN_SHEET_NAME (default "Payoff Plans").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	planSheet := strings.TrimSpace(os.Getenv("PLAN_SHEET_NAME"))
	if planSheet == "" {
		planSheet = "Payoff Plans"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		planSheet:     planSheet,
	}, nil
}

// newSheetsService initializes a Sheets service from service account
// credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
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

// AppendPlan writes the schedule as a header row followed by one row per
// debt, in plan order.
func (c *Client) AppendPlan(ctx context.Context, p ports.PlanExport) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := [][]interface{}{
		{
			p.GeneratedAt.Format("2006-01-02 15:04"),
			p.Strategy,
			p.TotalMonths,
			p.TotalInterest.Dollars(),
			p.InterestSaved.Dollars(),
		},
	}
	for _, row := range p.Rows {
		values = append(values, []interface{}{
			row.Name,
			row.Kind,
			row.Balance.Dollars(),
			row.Payment.Dollars(),
			row.Months,
			row.Interest.Dollars(),
		})
	}

	rng := fmt.Sprintf("%s!A:F", c.planSheet)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append plan rows: %w", err)
	}

	slog.InfoContext(ctx, "Plan exported to Google Sheets",
		"strategy", p.Strategy,
		"rows", len(p.Rows),
		"sheet", c.planSheet)

	return nil
}
