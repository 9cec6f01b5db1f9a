package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cahyo/cashflow/internal/interpret"
	"github.com/cahyo/cashflow/internal/scanning"
)

var (
	// ErrStoreRequired is returned when an entry has no store name
	ErrStoreRequired = errors.New("store name is required")
	// ErrInvalidDate is returned when an entry date is not YYYY-MM-DD
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
)

// IDGenerator generates unique IDs for scans
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles expense operations
type Service struct {
	ledger      Ledger
	scanner     scanning.Scanner
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(ledger Ledger, scanner scanning.Scanner, storage Storage) *Service {
	return NewServiceWithDeps(ledger, scanner, storage, uuidGenerator{}, defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(ledger Ledger, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		ledger:      ledger,
		scanner:     scanner,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up phone-generated file names
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeChars.ReplaceAllString(base, "")
	base = spaceRuns.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	ext = unsafeChars.ReplaceAllString(strings.TrimPrefix(ext, "."), "")
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// ScanReceipt archives a receipt photo, reads its text and interprets it.
// Nothing is recorded in the ledger; the scan is meant to be reviewed first.
func (s *Service) ScanReceipt(ctx context.Context, filename string, data []byte, contentType string) (*Scan, error) {
	id := s.idGenerator.Generate()

	image, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	lines, err := s.scanner.ReadText(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		if delErr := s.storage.Delete(image); delErr != nil {
			slog.Warn("Failed to delete file", "filename", image, "error", delErr)
		}
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	return &Scan{
		ID:      id,
		Image:   image,
		Lines:   lines,
		Receipt: s.Interpret(lines),
	}, nil
}

// Interpret turns OCR lines into a receipt dated today
func (s *Service) Interpret(lines []string) interpret.ParsedReceipt {
	for i, res := range interpret.Inspect(lines) {
		if res.Err != nil {
			slog.Debug("Skipped receipt line", "index", i, "line", res.Line, "reason", res.Err)
		}
	}
	return interpret.Parse(lines, s.timeSource.Now())
}

// BuildRows turns an entry into ledger rows.
// Items without a name or with a non-positive price are dropped, and the total is
// recomputed from what remains since a person may have edited the items.
func (s *Service) BuildRows(entry Receipt) ([]Row, error) {
	store := strings.TrimSpace(entry.Store)
	if store == "" {
		return nil, ErrStoreRequired
	}

	date := strings.TrimSpace(entry.Date)
	if date == "" {
		date = s.timeSource.Now().Format(interpret.DateLayout)
	} else if _, err := time.Parse(interpret.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, entry.Date)
	}

	var rows []Row
	var total int64
	for _, item := range entry.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Price <= 0 {
			continue
		}
		rows = append(rows, Row{Date: date, Store: store, Item: name, Price: item.Price})
		total += item.Price
	}
	for i := range rows {
		rows[i].Total = total
	}
	return rows, nil
}

// RecordExpense appends an entry to the ledger. It reports false, with no error,
// when the entry holds no recordable item.
func (s *Service) RecordExpense(ctx context.Context, entry Receipt) (bool, int, error) {
	rows, err := s.BuildRows(entry)
	if err != nil {
		return false, 0, err
	}
	if len(rows) == 0 {
		return false, 0, nil
	}

	if err := s.ledger.AppendRows(ctx, rows); err != nil {
		return false, 0, fmt.Errorf("appending to ledger: %w", err)
	}

	slog.Info("Recorded expense", "store", rows[0].Store, "date", rows[0].Date, "items", len(rows), "total", rows[0].Total)
	return true, len(rows), nil
}

// Ledger returns every recorded row
func (s *Service) Ledger(ctx context.Context) ([]Row, error) {
	rows, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	return rows, nil
}

// Report summarizes the ledger
func (s *Service) Report(ctx context.Context) (*Summary, error) {
	rows, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(rows), nil
}

// ExportXLSX returns the whole ledger as an XLSX workbook
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := s.timeSource.Now()
	rows, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	data, err := buildWorkbook(rows)
	if err != nil {
		return nil, fmt.Errorf("building workbook: %w", err)
	}

	slog.Info("Exported ledger", "rows", len(rows), "elapsed_ms", s.timeSource.Now().Sub(start).Milliseconds())
	return data, nil
}

// GetScanImage returns an archived receipt photo
func (s *Service) GetScanImage(name string) ([]byte, error) {
	data, err := s.storage.Get(name)
	if err != nil {
		return nil, fmt.Errorf("getting receipt image: %w", err)
	}
	return data, nil
}
