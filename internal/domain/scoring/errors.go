package scoring

import "errors"

// ErrUnknownPreset is returned for a rubric preset name that does not exist.
var ErrUnknownPreset = errors.New("unknown rubric preset")
