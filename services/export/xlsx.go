// Package exportsvc renders class reports into downloadable spreadsheets.
package exportsvc

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/darasahq/darasa/core/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type XLSXWriter struct{}

func NewXLSXWriter() *XLSXWriter { return &XLSXWriter{} }

func (XLSXWriter) ContentType() string { return xlsxContentType }

// Write renders the report into a workbook with a single sheet named after
// the class, a header row and one row per student.
func (XLSXWriter) Write(rpt report.ClassReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()

	sheet := "Class " + rpt.ClassInfo.Name
	f.SetSheetName(f.GetSheetName(0), sheet)

	writeRow := func(rowNum int, cells []string) error {
		for col, val := range cells {
			axis, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err = f.SetCellValue(sheet, axis, val); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, report.ExportHeader); err != nil {
		return nil, errors.Wrap(err, "writing header row")
	}
	for i, row := range report.ExportRows(rpt) {
		if err := writeRow(i+2, row); err != nil {
			return nil, errors.Wrap(err, "writing report row")
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf, nil
}
