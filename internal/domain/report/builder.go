package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sohrab4u/consultation/internal/adapters/worker"
	"github.com/sohrab4u/consultation/internal/domain/duration"
	"github.com/sohrab4u/consultation/internal/domain/model"
	"github.com/sohrab4u/consultation/internal/domain/scoring"
	"github.com/sohrab4u/consultation/pkg/logger"
	"github.com/sohrab4u/consultation/pkg/metrics"
)

// Columns maps report fields to source column names.
type Columns struct {
	PatientID      string
	ConsultationID string
	Status         string
	Duration       string
	Symptoms       string
	Diagnosis      string
	Advice         string
}

// DefaultColumns returns the column names of the standard consultation export.
func DefaultColumns() Columns {
	return Columns{
		PatientID:      model.ColPatientID,
		ConsultationID: model.ColConsultationID,
		Status:         model.ColConsultationStatus,
		Duration:       model.ColDuration,
		Symptoms:       model.ColSymptoms,
		Diagnosis:      model.ColDiagnosis,
		Advice:         model.ColAdvice,
	}
}

// WithDefaults fills empty names from DefaultColumns.
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Columns{
		PatientID:      pick(c.PatientID, d.PatientID),
		ConsultationID: pick(c.ConsultationID, d.ConsultationID),
		Status:         pick(c.Status, d.Status),
		Duration:       pick(c.Duration, d.Duration),
		Symptoms:       pick(c.Symptoms, d.Symptoms),
		Diagnosis:      pick(c.Diagnosis, d.Diagnosis),
		Advice:         pick(c.Advice, d.Advice),
	}
}

// Builder assembles report rows from records.
type Builder struct {
	scorer  *scoring.Scorer
	pool    *worker.Pool
	columns Columns
	logger  logger.Logger
}

// NewBuilder creates a builder with the default scorer, a CPU-sized pool and
// the standard column names.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		scorer:  scoring.NewScorer(),
		columns: DefaultColumns(),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = logger.Get().Named("builder")
	}
	if b.pool == nil {
		b.pool = worker.NewPool(worker.WithName("builder-pool"), worker.WithLogger(b.logger))
	}

	return b
}

// Build scores every record and returns the rows in input order. An empty
// input returns nil with no error, meaning there is nothing to report.
// Individual records never fail the batch; only cancellation does.
func (b *Builder) Build(ctx context.Context, records []model.Record) (*Batch, error) {
	if len(records) == 0 {
		return nil, nil
	}

	start := time.Now()
	rows := make([]Row, len(records))
	err := b.pool.Run(ctx, len(records), func(_ context.Context, i int) {
		rows[i] = b.buildRow(i+1, records[i])
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	batch := &Batch{Rows: rows}
	for i := range rows {
		row := &rows[i]
		metrics.RecordRecordScored(row.CompletionScore)
		if row.DurationErr == nil {
			continue
		}
		kind := "format"
		var perr *duration.ParseError
		if errors.As(row.DurationErr, &perr) {
			kind = perr.KindName()
		}
		metrics.RecordDurationParseFailure(kind)
		batch.Failures = append(batch.Failures, DurationFailure{
			RowNumber:      row.RowNumber,
			ConsultationID: row.ConsultationID,
			Reason:         row.DurationErr.Error(),
		})
	}

	metrics.RecordReportBuildLatency(float64(time.Since(start).Microseconds()) / 1000)
	b.logger.Debug(ctx, "rows built",
		logger.Int("rows", len(rows)),
		logger.Int("duration_failures", len(batch.Failures)),
	)
	return batch, nil
}

func (b *Builder) buildRow(n int, rec model.Record) Row {
	res := b.scorer.Score(rec)
	raw, _ := rec.Get(b.columns.Duration)
	secs, derr := duration.Parse(raw)

	return Row{
		RowNumber:       n,
		PatientID:       rec.TextOr(b.columns.PatientID, Unknown),
		ConsultationID:  rec.TextOr(b.columns.ConsultationID, Unknown),
		CompletionScore: res.Percent,
		MissingScore:    res.MissingPercent,
		FilledFields:    res.Filled,
		MissingFields:   res.Missing,
		TimeTaken:       duration.TimeTaken(raw),
		Status:          rec.TextOr(b.columns.Status, Unknown),
		Symptoms:        rec.TextOr(b.columns.Symptoms, ""),
		Diagnosis:       rec.TextOr(b.columns.Diagnosis, ""),
		Advice:          rec.TextOr(b.columns.Advice, ""),
		DurationSeconds: secs,
		DurationErr:     derr,
	}
}
