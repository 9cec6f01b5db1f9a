package expense

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cahyo/cashflow/internal/interpret"
)

// Ledger is the append-only store of expense rows
type Ledger interface {
	// AppendRows adds rows to the end of the ledger
	AppendRows(ctx context.Context, rows []Row) error

	// ReadAll returns every row in the order it was appended
	ReadAll(ctx context.Context) ([]Row, error)

	// Close releases the ledger's resources
	Close() error
}

// rowValues flattens a row in header order
func rowValues(r Row) []any {
	return []any{r.Date, r.Store, r.Item, r.Price, r.Total}
}

// rowFromValues rebuilds a row from cells in header order.
// Spreadsheet cells may hold strings or numbers, and trailing cells may be missing.
func rowFromValues(cells []any) (Row, error) {
	get := func(i int) any {
		if i < len(cells) {
			return cells[i]
		}
		return nil
	}

	price, err := toAmount(get(3))
	if err != nil {
		return Row{}, fmt.Errorf("reading %s: %w", header[3], err)
	}
	total, err := toAmount(get(4))
	if err != nil {
		return Row{}, fmt.Errorf("reading %s: %w", header[4], err)
	}

	return Row{
		Date:  toDate(get(0)),
		Store: toText(get(1)),
		Item:  toText(get(2)),
		Price: price,
		Total: total,
	}, nil
}

func toText(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// sheetsEpoch is day zero of spreadsheet serial dates
var sheetsEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// toDate reads a date cell. Dates typed into the sheet by hand come back as serial
// day numbers rather than text.
func toDate(v any) string {
	if serial, ok := v.(float64); ok {
		return sheetsEpoch.AddDate(0, 0, int(serial)).Format(interpret.DateLayout)
	}
	return toText(v)
}

func toAmount(v any) (int64, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected amount %v", v)
	}
}

// isHeader reports whether spreadsheet cells are the header row
func isHeader(cells []any) bool {
	return len(cells) > 0 && strings.EqualFold(toText(cells[0]), header[0])
}
