// Package google implements the ledger ports against a Google Sheets
// spreadsheet with two worksheets: "transactions" and "lending". Rows use
// the fixed column orders described in internal/ledger.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	ports "github.com/HimanshuSingh-966/PayLog/internal/ledger"
	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	transactionsSheet = "transactions"
	lendingSheet      = "lending"
)

var transactionsHeader = []any{
	"date", "direction", "wallet", "amount", "description",
	"balance_total", "balance_wallet", "category", "merchant",
}

var lendingHeader = []any{
	"date", "person", "amount", "status", "description", "return_date", "return_to",
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// Ensure interface conformance
var _ ports.Gateway = (*Client)(nil)

// NewFromEnv creates a Sheets-backed ledger using environment variables.
// Required: GOOGLE_SPREADSHEET_ID, plus service-account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS. Missing worksheets are created with their
// header rows.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	c := &Client{svc: svc, spreadsheetID: spreadsheetID}
	if err := c.ensureWorksheets(ctx); err != nil {
		return nil, fmt.Errorf("ensure worksheets: %w", err)
	}
	return c, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
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

func (c *Client) ensureWorksheets(ctx context.Context) error {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	existing := map[string]bool{}
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			existing[s.Properties.Title] = true
		}
	}
	for title, header := range map[string][]any{
		transactionsSheet: transactionsHeader,
		lendingSheet:      lendingHeader,
	} {
		if existing[title] {
			continue
		}
		req := &gsheet.BatchUpdateSpreadsheetRequest{
			Requests: []*gsheet.Request{{
				AddSheet: &gsheet.AddSheetRequest{
					Properties: &gsheet.SheetProperties{Title: title},
				},
			}},
		}
		if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("add sheet %s: %w", title, err)
		}
		vr := &gsheet.ValueRange{Values: [][]any{header}}
		_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, title+"!A1", vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write header for %s: %w", title, err)
		}
		slog.InfoContext(ctx, "Created worksheet", "sheet", title)
	}
	return nil
}

func (c *Client) AppendTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	row := []any{
		core.FormatDate(t.Date),
		string(t.Direction),
		string(t.Wallet),
		core.FormatAmount(t.Amount),
		t.Description,
		core.FormatAmount(t.BalanceTotal),
		core.FormatAmount(t.BalanceWallet),
		t.Category,
		t.Merchant,
	}
	return c.appendRow(ctx, transactionsSheet, row)
}

func (c *Client) AppendLending(ctx context.Context, r core.LendingRecord) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	returnDate := ""
	if !r.ReturnDate.IsZero() {
		returnDate = core.FormatDate(r.ReturnDate)
	}
	row := []any{
		core.FormatDate(r.Date),
		r.Person,
		core.FormatAmount(r.Amount),
		string(r.Status),
		r.Description,
		returnDate,
		string(r.ReturnTo),
	}
	return c.appendRow(ctx, lendingSheet, row)
}

func (c *Client) appendRow(ctx context.Context, sheet string, row []any) error {
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A1", vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := c.readRows(ctx, transactionsSheet, "A2:I")
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, cols := range rows {
		if len(cols) < 7 {
			continue
		}
		date, err := core.ParseDate(cols[0])
		if err != nil || date.IsZero() {
			continue
		}
		amount, ok := parseCell(cols[3])
		if !ok {
			continue
		}
		balTotal, _ := parseCell(cols[5])
		balWallet, _ := parseCell(cols[6])
		t := core.Transaction{
			Date:          date,
			Direction:     core.Direction(strings.TrimSpace(cols[1])),
			Wallet:        core.Wallet(strings.TrimSpace(cols[2])),
			Amount:        amount,
			Description:   strings.TrimSpace(cols[4]),
			BalanceTotal:  balTotal,
			BalanceWallet: balWallet,
			Category:      core.DefaultCategory,
		}
		if len(cols) >= 8 && strings.TrimSpace(cols[7]) != "" {
			t.Category = strings.TrimSpace(cols[7])
		}
		if len(cols) >= 9 {
			t.Merchant = strings.TrimSpace(cols[8])
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *Client) ListLending(ctx context.Context) ([]core.LendingRecord, error) {
	rows, err := c.readRows(ctx, lendingSheet, "A2:G")
	if err != nil {
		return nil, err
	}
	return parseLendingRows(rows)
}

// parseLendingRows converts sheet rows into records. MarkReturned addresses
// records by position (record i lives on sheet row i+2), so a malformed row
// fails the whole scan instead of being skipped; skipping would shift every
// later index onto the wrong physical row.
func parseLendingRows(rows [][]string) ([]core.LendingRecord, error) {
	out := make([]core.LendingRecord, 0, len(rows))
	for i, cols := range rows {
		rowNum := i + 2
		if len(cols) < 5 {
			return nil, fmt.Errorf("lending row %d: expected at least 5 cells, got %d", rowNum, len(cols))
		}
		date, err := core.ParseDate(cols[0])
		if err != nil {
			return nil, fmt.Errorf("lending row %d: %w", rowNum, err)
		}
		if date.IsZero() {
			return nil, fmt.Errorf("lending row %d: missing date", rowNum)
		}
		amount, ok := parseCell(cols[2])
		if !ok {
			return nil, fmt.Errorf("lending row %d: bad amount %q", rowNum, cols[2])
		}
		r := core.LendingRecord{
			Date:        date,
			Person:      strings.TrimSpace(cols[1]),
			Amount:      amount,
			Status:      core.LendingStatus(strings.TrimSpace(cols[3])),
			Description: strings.TrimSpace(cols[4]),
		}
		if len(cols) >= 6 {
			rd, err := core.ParseDate(cols[5])
			if err != nil {
				return nil, fmt.Errorf("lending row %d: %w", rowNum, err)
			}
			r.ReturnDate = rd
		}
		if len(cols) >= 7 {
			r.ReturnTo = core.Wallet(strings.TrimSpace(cols[6]))
		}
		out = append(out, r)
	}
	return out, nil
}

// MarkReturned updates the status, return_date and return_to cells of the
// lending row at the given position (zero-based, ledger order). Row 1 holds
// the header, so record i lives on sheet row i+2.
func (c *Client) MarkReturned(ctx context.Context, index int, returnDate time.Time, returnTo core.Wallet) error {
	if c.svc == nil {
		return ports.ErrNotConfigured
	}
	rowNum := index + 2
	statusRange := fmt.Sprintf("%s!D%d", lendingSheet, rowNum)
	vr := &gsheet.ValueRange{Values: [][]any{{string(core.StatusReturned)}}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, statusRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update status cell: %w", err)
	}
	returnRange := fmt.Sprintf("%s!F%d:G%d", lendingSheet, rowNum, rowNum)
	vr = &gsheet.ValueRange{Values: [][]any{{core.FormatDate(returnDate), string(returnTo)}}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, returnRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update return cells: %w", err)
	}
	return nil
}

// DeleteLastTransaction removes the newest transaction row. The prior
// balances come back automatically because they live on the remaining rows.
func (c *Client) DeleteLastTransaction(ctx context.Context) error {
	if c.svc == nil {
		return ports.ErrNotConfigured
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, transactionsSheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get sheet dimensions: %w", err)
	}
	lastRow := len(resp.Values)
	if lastRow <= 1 {
		return errors.New("ledger is empty")
	}
	sheetID, err := c.sheetID(ctx, transactionsSheet)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(lastRow - 1),
					EndIndex:   int64(lastRow),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete last row: %w", err)
	}
	return nil
}

func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %s not found", title)
}

func (c *Client) readRows(ctx context.Context, sheet, span string) ([][]string, error) {
	if c.svc == nil {
		return nil, ports.ErrNotConfigured
	}
	rng := fmt.Sprintf("%s!%s", sheet, span)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, toStrings(row))
	}
	return out, nil
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// parseCell reads a numeric spreadsheet cell, tolerating decimal commas.
func parseCell(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
