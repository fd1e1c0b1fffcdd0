package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/starford/harvester/internal/models"
)

const (
	sheetLineItems = "LineItems"
	sheetContracts = "Contracts"
)

// WriteWorkbook writes both tables into one spreadsheet.
func (w *Writer) WriteWorkbook(path string, rows []models.ResolvedRow, contracts []models.Contract) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetLineItems); err != nil {
		return fmt.Errorf("output: workbook: %w", err)
	}
	if _, err := f.NewSheet(sheetContracts); err != nil {
		return fmt.Errorf("output: workbook: %w", err)
	}

	lines := make([][]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, invoiceRecord(r))
	}
	if err := fillSheet(f, sheetLineItems, InvoiceHeaders, lines); err != nil {
		return err
	}

	deals := make([][]string, 0, len(contracts))
	for _, c := range contracts {
		deals = append(deals, contractRecord(c))
	}
	if err := fillSheet(f, sheetContracts, ContractHeaders, deals); err != nil {
		return err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("output: workbook encode: %w", err)
	}
	if err := w.files.Write(path, buf.Bytes()); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, header []string, records [][]string) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, rec := range records {
		if err := setRow(f, sheet, i+2, rec); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("output: %s row %d: %w", sheet, row, err)
	}
	return nil
}
