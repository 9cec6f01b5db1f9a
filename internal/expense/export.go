package expense

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Ledger"

// buildWorkbook writes ledger rows to an XLSX workbook
func buildWorkbook(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("locating header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("locating row %d: %w", i+1, err)
		}
		values := rowValues(r)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	for _, col := range []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 12}, // date
		{"B", "C", 28}, // store, item
		{"D", "E", 14}, // amounts
	} {
		if err := f.SetColWidth(exportSheet, col.from, col.to, col.width); err != nil {
			return nil, fmt.Errorf("sizing columns %s:%s: %w", col.from, col.to, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
