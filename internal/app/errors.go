package service

import "errors"

// Sentinel kinds for batch-level failures.
var (
	ErrNoInput = errors.New("no input dataset given")
	ErrExport  = errors.New("report export failed")
)
