package expense

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsLedger implements the Ledger interface on a Google Sheets range
type SheetsLedger struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	sheetRange    string
}

// NewSheetsLedger connects to a spreadsheet. sheetRange names the sheet (or A1
// range) holding the ledger, e.g. "Sheet1". Credentials are passed in as client options.
func NewSheetsLedger(ctx context.Context, spreadsheetID, sheetRange string, opts ...option.ClientOption) (*SheetsLedger, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if sheetRange == "" {
		sheetRange = "Sheet1"
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	return &SheetsLedger{
		values:        srv.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
	}, nil
}

// AppendRows appends rows below the last row of the sheet.
// Values are stored as given, so OCR text starting with "=" never becomes a formula.
func (s *SheetsLedger) AppendRows(ctx context.Context, rows []Row) error {
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, rowValues(r))
	}

	_, err := s.values.Append(s.spreadsheetID, s.sheetRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending rows to sheet: %w", err)
	}
	return nil
}

// ReadAll reads every row of the sheet, skipping the header row.
// Rows a person mangled by hand are logged and skipped.
func (s *SheetsLedger) ReadAll(ctx context.Context) ([]Row, error) {
	resp, err := s.values.Get(s.spreadsheetID, s.sheetRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	rows := make([]Row, 0, len(resp.Values))
	for i, cells := range resp.Values {
		if len(cells) == 0 || (i == 0 && isHeader(cells)) {
			continue
		}
		row, err := rowFromValues(cells)
		if err != nil {
			slog.Warn("Skipping unreadable sheet row", "row", i+1, "error", err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Close is a no-op for the HTTP client
func (s *SheetsLedger) Close() error {
	return nil
}
