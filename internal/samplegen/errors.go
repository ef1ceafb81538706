package samplegen

import "errors"

var (
	// ErrInvalidConfig is returned when generation parameters are out of range.
	ErrInvalidConfig = errors.New("invalid sample config")

	// ErrWrite is returned when the workbook cannot be written.
	ErrWrite = errors.New("failed to write sample workbook")
)
