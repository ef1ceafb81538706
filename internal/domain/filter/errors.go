package filter

import (
	"errors"
	"fmt"
)

// Filter names used in errors and metric labels.
const (
	NameDateRange = "date_range"
	NamePatient   = "patient_search"
)

// Sentinel causes for a filter that could not be applied.
var (
	ErrColumnMissing = errors.New("column not present in any record")
	ErrFieldUnset    = errors.New("field name not set")
)

// Error is returned alongside the unfiltered input when a filter could not be
// applied as a whole. Callers treat it as a warning.
type Error struct {
	Filter string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s filter not applied: %v", e.Filter, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
