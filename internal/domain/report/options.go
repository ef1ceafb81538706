package report

import (
	"github.com/sohrab4u/consultation/internal/adapters/worker"
	"github.com/sohrab4u/consultation/internal/domain/scoring"
	"github.com/sohrab4u/consultation/pkg/logger"
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithScorer sets the completeness scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(b *Builder) {
		if s != nil {
			b.scorer = s
		}
	}
}

// WithPool sets the worker pool rows are built on.
func WithPool(p *worker.Pool) Option {
	return func(b *Builder) {
		if p != nil {
			b.pool = p
		}
	}
}

// WithColumns overrides the source column names. Empty names keep the
// defaults.
func WithColumns(c Columns) Option {
	return func(b *Builder) {
		b.columns = c.WithDefaults()
	}
}

// WithLogger sets a custom logger for the builder.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}
