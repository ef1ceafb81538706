package service

import (
	"time"

	"github.com/sohrab4u/consultation/internal/domain/report"
	"github.com/sohrab4u/consultation/internal/domain/scoring"
	"github.com/sohrab4u/consultation/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRubric sets the rubric records are scored against.
func WithRubric(r scoring.Rubric) Option {
	return func(s *Service) {
		if r != nil {
			s.rubric = r
		}
	}
}

// WithMarkerQuirk sets the upstream marker exception; a zero value disables it.
func WithMarkerQuirk(q scoring.MarkerQuirk) Option {
	return func(s *Service) {
		s.quirk = q
	}
}

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithColumns sets the source column names read by the builder.
func WithColumns(c report.Columns) Option {
	return func(s *Service) {
		s.columns = c
	}
}

// WithPatientNameField sets the column searched by patient name.
func WithPatientNameField(field string) Option {
	return func(s *Service) {
		if field != "" {
			s.patientNameField = field
		}
	}
}

// WithDateField sets the column the date range filter reads.
func WithDateField(field string) Option {
	return func(s *Service) {
		if field != "" {
			s.dateField = field
		}
	}
}

// WithSheet selects the input worksheet.
func WithSheet(sheet string) Option {
	return func(s *Service) {
		s.sheet = sheet
	}
}

// WithFormats sets the exports to write.
func WithFormats(formats []string) Option {
	return func(s *Service) {
		if len(formats) > 0 {
			s.formats = append([]string(nil), formats...)
		}
	}
}

// WithOutputDir sets the directory exports are written to.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.outputDir = dir
		}
	}
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(s *Service) {
		if title != "" {
			s.title = title
		}
	}
}

// WithFailureDisplayLimit caps the duration failures shown in reports.
func WithFailureDisplayLimit(limit int) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.failureLimit = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
