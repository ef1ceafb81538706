// Package service wires loading, filtering, scoring, aggregation and export
// into a single report run.
package service

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sohrab4u/consultation/internal/adapters/dataset"
	"github.com/sohrab4u/consultation/internal/adapters/export"
	"github.com/sohrab4u/consultation/internal/adapters/worker"
	"github.com/sohrab4u/consultation/internal/config"
	"github.com/sohrab4u/consultation/internal/domain/dedupe"
	"github.com/sohrab4u/consultation/internal/domain/filter"
	"github.com/sohrab4u/consultation/internal/domain/model"
	"github.com/sohrab4u/consultation/internal/domain/report"
	"github.com/sohrab4u/consultation/internal/domain/scoring"
	"github.com/sohrab4u/consultation/pkg/logger"
	"github.com/sohrab4u/consultation/pkg/metrics"
)

// Request describes one report run. Either Input or Records is set.
type Request struct {
	// Input is the path of an xlsx or csv export.
	Input string
	// Records are used as-is when Input is empty.
	Records []model.Record

	From        time.Time
	To          time.Time
	PatientID   string
	PatientName string
}

// Result is the outcome of a run. Batch is nil when there was nothing to
// report.
type Result struct {
	RunID       string
	GeneratedAt time.Time
	Loaded      int
	Kept        int
	Batch       *report.Batch
	Summary     report.Summary
	Warnings    []string
	Files       []string
}

// Empty reports whether the run had nothing to report.
func (r *Result) Empty() bool { return r.Batch == nil }

// Service runs reports. Components are built on first use and reused.
type Service struct {
	once sync.Once

	// Components
	reader  *dataset.Reader
	builder *report.Builder

	// Configuration
	rubric           scoring.Rubric
	quirk            scoring.MarkerQuirk
	workerCount      int
	columns          report.Columns
	patientNameField string
	dateField        string
	sheet            string
	formats          []string
	outputDir        string
	title            string
	failureLimit     int
	now              func() time.Time

	// Logging
	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		rubric:           scoring.BroadRubric(),
		quirk:            scoring.MarkerQuirk{Field: scoring.DefaultQuirkField, Marker: scoring.DefaultQuirkMarker},
		workerCount:      runtime.NumCPU(),
		columns:          report.DefaultColumns(),
		patientNameField: model.ColPatientName,
		dateField:        model.ColCreatedDate,
		formats:          export.Formats(),
		outputDir:        ".",
		title:            export.DefaultTitle,
		failureLimit:     report.DefaultFailureDisplayLimit,
		now:              time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewFromConfig builds a Service from loaded configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	rubric, err := scoring.RubricByName(cfg.RubricPreset)
	if err != nil {
		return nil, err
	}
	if len(cfg.RubricFields) > 0 {
		rubric = scoring.NewRubric(cfg.RubricFields)
	}

	base := []Option{
		WithRubric(rubric),
		WithMarkerQuirk(scoring.MarkerQuirk{Field: cfg.QuirkField, Marker: cfg.QuirkMarker}),
		WithWorkerCount(cfg.WorkerCount),
		WithColumns(report.Columns{
			PatientID:      cfg.PatientIDField,
			ConsultationID: cfg.ConsultationIDField,
			Status:         cfg.StatusField,
			Duration:       cfg.DurationField,
		}),
		WithPatientNameField(cfg.PatientNameField),
		WithDateField(cfg.DateField),
		WithSheet(cfg.Sheet),
		WithFormats(cfg.Formats),
		WithOutputDir(cfg.OutputDir),
		WithTitle(cfg.ReportTitle),
		WithFailureDisplayLimit(cfg.FailureDisplayLimit),
	}
	return New(append(base, opts...)...), nil
}

func (s *Service) setup() {
	s.once.Do(func() {
		if s.logger == nil {
			s.logger = logger.Get()
		}

		s.columns = s.columns.WithDefaults()
		known := append([]string{s.columns.PatientID, s.columns.ConsultationID}, s.rubric...)
		s.reader = dataset.NewReader(
			dataset.WithSheet(s.sheet),
			dataset.WithKnownColumns(known),
			dataset.WithLogger(s.logger.Named("dataset")),
		)

		pool := worker.NewPool(
			worker.WithSize(s.workerCount),
			worker.WithName("scoring"),
			worker.WithLogger(s.logger.Named("worker")),
		)
		s.builder = report.NewBuilder(
			report.WithScorer(scoring.NewScorer(
				scoring.WithRubric(s.rubric),
				scoring.WithMarkerQuirk(s.quirk),
			)),
			report.WithPool(pool),
			report.WithColumns(s.columns),
			report.WithLogger(s.logger.Named("builder")),
		)
	})
}

// Run loads the input, generates the report and writes every configured
// export. Any error is batch-level: no export files are left behind.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	s.setup()

	records := req.Records
	if req.Input != "" {
		loaded, err := s.reader.Load(ctx, req.Input)
		if err != nil {
			metrics.RecordReportFailure()
			return nil, err
		}
		records = loaded
	} else if records == nil {
		metrics.RecordReportFailure()
		return nil, ErrNoInput
	}

	res, err := s.Generate(ctx, records, req)
	if err != nil {
		return nil, err
	}
	if res.Empty() {
		return res, nil
	}

	files, err := s.Export(ctx, res)
	if err != nil {
		metrics.RecordReportFailure()
		return nil, err
	}
	res.Files = files
	return res, nil
}

// Generate filters, scores and aggregates records without writing anything.
func (s *Service) Generate(ctx context.Context, records []model.Record, req Request) (*Result, error) {
	s.setup()

	res := &Result{
		RunID:       uuid.NewString(),
		GeneratedAt: s.now(),
		Loaded:      len(records),
	}
	log := s.logger.With(logger.String("run_id", res.RunID))

	kept, err := filter.ByDateRange(records, filter.DateRange{
		Start: req.From,
		End:   req.To,
		Field: s.dateField,
	})
	s.filterOutcome(ctx, log, res, filter.NameDateRange, len(records), len(kept), err)

	before := len(kept)
	kept, err = filter.ByPatient(kept, filter.PatientQuery{
		ID:        req.PatientID,
		Name:      req.PatientName,
		IDField:   s.columns.PatientID,
		NameField: s.patientNameField,
	})
	s.filterOutcome(ctx, log, res, filter.NamePatient, before, len(kept), err)
	res.Kept = len(kept)

	s.checkDuplicates(ctx, log, res, kept)

	start := time.Now()
	batch, err := s.builder.Build(ctx, kept)
	if err != nil {
		metrics.RecordReportFailure()
		metrics.RecordErrorByComponent("builder", "interrupted")
		return nil, err
	}
	if batch == nil {
		metrics.RecordReportEmpty()
		log.Warn(ctx, "nothing to report",
			logger.Int("loaded", res.Loaded),
			logger.Int("kept", res.Kept),
		)
		res.Summary = report.Summarize(nil)
		return res, nil
	}

	res.Batch = batch
	res.Summary = report.Summarize(batch.Rows)
	metrics.UpdateBandCount(string(report.BandHigh), res.Summary.High)
	metrics.UpdateBandCount(string(report.BandMedium), res.Summary.Medium)
	metrics.UpdateBandCount(string(report.BandLow), res.Summary.Low)

	for _, msg := range res.Summary.FailureMessages(s.failureLimit) {
		log.Warn(ctx, "duration not parsed", logger.String("detail", msg))
	}
	log.Info(ctx, "report generated",
		logger.Int("rows", res.Summary.Total),
		logger.Float64("avg_completion", res.Summary.AvgCompletion),
		logger.String("avg_duration", res.Summary.AvgDuration),
		logger.Int("duration_failures", len(res.Summary.Failures)),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (s *Service) filterOutcome(ctx context.Context, log logger.Logger, res *Result, name string, before, after int, err error) {
	if err != nil {
		metrics.RecordFilterFailOpen(name)
		res.Warnings = append(res.Warnings, err.Error())
		log.Warn(ctx, "filter failed open", logger.String("filter", name), logger.Error(err))
		return
	}
	metrics.RecordFilterDropped(name, before-after)
}

func (s *Service) checkDuplicates(ctx context.Context, log logger.Logger, res *Result, records []model.Record) {
	tracker := dedupe.NewTracker(dedupe.WithIgnored(report.Unknown))
	for _, rec := range records {
		tracker.SeenAndRecord(rec.TextOr(s.columns.ConsultationID, report.Unknown))
	}
	for _, d := range tracker.Duplicates() {
		msg := "ConsultationId " + d.ID + " appears " + strconv.Itoa(d.Count) + " times"
		res.Warnings = append(res.Warnings, msg)
		log.Warn(ctx, "duplicate consultation", logger.String("consultation_id", d.ID), logger.Int("count", d.Count))
	}
}

// Export writes every configured format concurrently. If any format fails the
// files already written are removed.
func (s *Service) Export(ctx context.Context, res *Result) ([]string, error) {
	s.setup()
	if res.Empty() {
		return nil, nil
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil { //nolint:gosec // report directory is meant to be shared
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	doc := &export.Document{
		RunID:        res.RunID,
		Title:        s.title,
		GeneratedAt:  res.GeneratedAt,
		Rows:         res.Batch.Rows,
		Summary:      res.Summary,
		Warnings:     res.Warnings,
		FailureLimit: s.failureLimit,
	}

	encoders := make([]export.Encoder, 0, len(s.formats))
	for _, f := range s.formats {
		enc, err := export.ByName(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExport, err)
		}
		encoders = append(encoders, enc)
	}

	files := make([]string, len(encoders))
	g, gctx := errgroup.WithContext(ctx)
	for i, enc := range encoders {
		g.Go(func() error {
			path, err := export.WriteFile(gctx, s.outputDir, enc, doc)
			if err != nil {
				return err
			}
			files[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, f := range files {
			if f != "" {
				_ = os.Remove(f)
			}
		}
		metrics.RecordErrorByComponent("export", "write")
		s.logger.Error(ctx, "export failed", logger.String("run_id", res.RunID), logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	s.logger.Info(ctx, "report written",
		logger.String("run_id", res.RunID),
		logger.Strings("files", files),
	)
	metrics.RecordReportGenerated()
	return files, nil
}
