package worker

import (
	"github.com/sohrab4u/consultation/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithSize sets the number of workers. Values below 1 keep the default.
func WithSize(size int) Option {
	return func(p *Pool) {
		if size > 0 {
			p.size = size
		}
	}
}

// WithName sets the pool name used for worker names and logging.
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(logger logger.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}
