package csvio

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"stockbook/internal/domain"
)

const (
	itemsSheet = "Items"
	salesSheet = "Sales"
)

func WriteItemsXLSX(filename string, items []domain.Item) error {
	return writeWorkbook(filename, itemsSheet, itemRows(items))
}

func WriteSalesXLSX(filename string, sales []domain.Sale) error {
	return writeWorkbook(filename, salesSheet, saleRows(sales))
}

func writeWorkbook(filename, sheet string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return nil
}
