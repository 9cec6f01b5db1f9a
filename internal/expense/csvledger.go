package expense

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"
)

// CSVLedger implements the Ledger interface on a CSV file with a header row
type CSVLedger struct {
	path string
	mu   sync.Mutex
}

// NewCSVLedger creates the ledger's directory if needed. The file itself is
// created on the first append.
func NewCSVLedger(path string) (*CSVLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}
	return &CSVLedger{path: path}, nil
}

// AppendRows appends rows, writing the header first when the file is new or empty
func (c *CSVLedger) AppendRows(ctx context.Context, rows []Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening ledger file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("checking ledger file: %w", err)
	}

	if info.Size() == 0 {
		err = gocsv.Marshal(rows, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, f)
	}
	if err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}

// ReadAll returns all rows in file order
func (c *CSVLedger) ReadAll(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]Row, 0)

	f, err := os.Open(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return rows, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger file: %w", err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return rows, nil
		}
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return rows, nil
}

// Close is a no-op; the file is opened per operation
func (c *CSVLedger) Close() error {
	return nil
}
