package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"glrfill/internal/domain"
)

const sheetName = "Fields"

// WriteXLSX writes fields as a single-sheet workbook to out.
func WriteXLSX(out io.Writer, fields domain.FieldMapping) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// the default sheet is renamed so the workbook has exactly one sheet
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	row := 2
	for _, k := range fields.Keys() {
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &[]interface{}{k, fields[k]}); err != nil {
			return fmt.Errorf("xlsx row %d: %w", row, err)
		}
		row++
	}

	_ = f.SetColWidth(sheetName, "A", "A", 32)
	_ = f.SetColWidth(sheetName, "B", "B", 60)

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
