package export

import (
	"fmt"
	"io"

	"github.com/sohrab4u/consultation/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook export.
const (
	SheetAll       = "Patient Report"
	SheetHigh      = "High Completion"
	SheetMedium    = "Medium Completion"
	SheetDashboard = "Dashboard"
)

// Columns holding numeric scores, 0-based in report.Header order.
const (
	colCompletion = 2
	colMissing    = 3
)

// XLSX writes a workbook with all rows, the high and medium bands and a
// dashboard of summary metrics.
type XLSX struct{}

// Format implements Encoder.
func (XLSX) Format() string { return FormatXLSX }

// Encode implements Encoder.
func (XLSX) Encode(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory workbook

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SheetAll); err != nil {
		return err
	}
	for _, name := range []string{SheetHigh, SheetMedium, SheetDashboard} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	var high, medium []report.Row
	for i := range doc.Rows {
		switch report.BandOf(doc.Rows[i].CompletionScore) {
		case report.BandHigh:
			high = append(high, doc.Rows[i])
		case report.BandMedium:
			medium = append(medium, doc.Rows[i])
		}
	}

	for _, s := range []struct {
		name string
		rows []report.Row
	}{
		{SheetAll, doc.Rows},
		{SheetHigh, high},
		{SheetMedium, medium},
	} {
		if err := writeRows(f, s.name, s.rows, bold); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	if err := writeDashboard(f, doc, bold); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetDashboard, err)
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows []report.Row, headerStyle int) error {
	header := report.Header()
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i := range rows {
		values := rows[i].Values()
		line := make([]any, len(values))
		for j, v := range values {
			line[j] = v
		}
		line[colCompletion] = rows[i].CompletionScore
		line[colMissing] = rows[i].MissingScore

		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &line); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "K", 18)
}

func writeDashboard(f *excelize.File, doc *Document, headerStyle int) error {
	sheet := SheetDashboard
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Metric", "Value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, m := range doc.Summary.Metrics() {
		axis, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, axis, &[]any{m.Name, m.Value}); err != nil {
			return err
		}
		row++
	}

	if msgs := doc.Summary.FailureMessages(doc.FailureLimit); len(msgs) > 0 {
		row++
		axis, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, axis, "Duration Parse Failures"); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, axis, axis, headerStyle); err != nil {
			return err
		}
		for _, m := range msgs {
			row++
			axis, _ = excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(sheet, axis, m); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(sheet, "A", "B", 36)
}
