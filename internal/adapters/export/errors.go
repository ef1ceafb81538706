package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrEncode        = errors.New("export encoding failed")
)
