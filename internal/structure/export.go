package structure

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"Section", "EntityType", "GroupCode", "Meaning", "Value"}

// WriteXLSX exports structure rows as a single-sheet workbook.
func WriteXLSX(rows []Row, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Structure"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for col, h := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		err = f.SetSheetRow(sheet, cell, &[]any{row.Section, row.Type, row.Code, row.Meaning, row.Value})
		if err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// WriteCSV exports structure rows as CSV with a header line.
func WriteCSV(rows []Row, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Section, row.Type, row.Code, row.Meaning, row.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
