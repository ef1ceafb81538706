package report

import "errors"

// ErrInterrupted is returned when a build is cancelled before every record
// was processed.
var ErrInterrupted = errors.New("report build interrupted")
