package dataset

import "errors"

// Batch-level failures. Nothing is returned alongside them.
var (
	ErrUnreadable = errors.New("dataset unreadable")
	ErrSchema     = errors.New("dataset schema not recognised")
)
