package dataset

import (
	"github.com/sohrab4u/consultation/pkg/logger"
)

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithSheet selects the worksheet to read. The first sheet is used otherwise.
func WithSheet(name string) Option {
	return func(r *Reader) {
		r.sheet = name
	}
}

// WithKnownColumns sets the columns of which at least one must appear in the
// header for the file to be accepted.
func WithKnownColumns(cols []string) Option {
	return func(r *Reader) {
		r.known = append([]string(nil), cols...)
	}
}

// WithLogger sets a custom logger for the reader.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}
