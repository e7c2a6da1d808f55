package report

import (
	"github.com/retailops/stockparity/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// writeExcelFile renders rows as a single-sheet workbook with the
// artifact columns in row one.
func writeExcelFile(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeExcelRow(f, 1, Header()); err != nil {
		return errors.WrapIO("render workbook", path, err)
	}
	for i, row := range rows {
		if err := writeExcelRow(f, i+2, row.Record()); err != nil {
			return errors.WrapIO("render workbook", path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write artifact", path, err)
	}
	return nil
}

func writeExcelRow(f *excelize.File, rowNo int, values []string) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return err
		}
	}
	return nil
}
