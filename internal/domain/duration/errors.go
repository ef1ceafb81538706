package duration

import "errors"

// Sentinel kinds for duration parse failures.
var (
	ErrEmpty  = errors.New("empty or NaN")
	ErrFormat = errors.New("invalid format")
	ErrRange  = errors.New("invalid time values")
)

// ParseError describes why a duration value could not be converted to
// seconds. Kind is one of ErrEmpty, ErrFormat or ErrRange.
type ParseError struct {
	Kind  error
	Input string
}

// Error returns the reason exactly as it is shown in reports.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrEmpty:
		return "Empty or NaN"
	case ErrRange:
		return "Invalid time values: " + e.Input
	default:
		return "Invalid format: " + e.Input
	}
}

// Unwrap exposes Kind to errors.Is.
func (e *ParseError) Unwrap() error { return e.Kind }

// KindName is a short label for the failure kind, used as a metric label.
func (e *ParseError) KindName() string {
	switch e.Kind {
	case ErrEmpty:
		return "empty"
	case ErrRange:
		return "range"
	default:
		return "format"
	}
}
