package samplegen

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/sohrab4u/consultation/internal/domain/model"
)

// WriteXLSX writes records as a single-sheet workbook in Header order.
// Timestamps are stored as typed date cells.
func WriteXLSX(w io.Writer, records []model.Record, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory workbook

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	header := Header()
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	row := make([]any, len(header))
	for i, rec := range records {
		for j, col := range header {
			v, _ := rec.Get(col)
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteFile writes the workbook to path.
func WriteFile(path string, records []model.Record, sheet string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := WriteXLSX(file, records, sheet); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
