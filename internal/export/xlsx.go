package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"labelscan/internal/domain"
)

const (
	resultsSheet  = "Results"
	failuresSheet = "Failures"
)

// WriteXLSX writes the batch outcome as a workbook with a Results sheet
// covering every file and a Failures sheet listing only the failed ones.
func WriteXLSX(out io.Writer, outcome *domain.BatchOutcome) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(failuresSheet); err != nil {
		return fmt.Errorf("creating failures sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeSheet(f, resultsSheet, columns, outcomeRows(outcome), bold); err != nil {
		return err
	}

	failureHeader := []string{"File Name", "Failure Kind", "Message"}
	failureRows := make([][]string, 0, len(outcome.Failures))
	for _, fl := range outcome.Failures {
		failureRows = append(failureRows, []string{fl.Filename, string(fl.Kind), fl.Message})
	}
	if err := writeSheet(f, failuresSheet, failureHeader, failureRows, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(resultsSheet, "D", "D", 80); err != nil {
		return fmt.Errorf("sizing text column: %w", err)
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string, headerStyle int) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
