// Package dataset loads consultation exports into records.
package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sohrab4u/consultation/internal/domain/model"
	"github.com/sohrab4u/consultation/pkg/logger"
	"github.com/sohrab4u/consultation/pkg/metrics"
)

// ctxCheckEvery is how many rows are read between cancellation checks.
const ctxCheckEvery = 500

// Reader turns xlsx and csv files into records.
type Reader struct {
	sheet  string
	known  []string
	logger logger.Logger
}

// NewReader creates a reader that accepts any header.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logger.Get().Named("dataset")
	}

	return r
}

// Load reads the file at path, choosing the format by extension.
func (r *Reader) Load(ctx context.Context, path string) ([]model.Record, error) {
	records, err := r.load(ctx, path)
	if err != nil {
		metrics.RecordDatasetLoadError()
		r.logger.Error(ctx, "dataset load failed", logger.String("path", path), logger.Error(err))
		return nil, err
	}
	metrics.UpdateDatasetRows(len(records))
	r.logger.Info(ctx, "dataset loaded", logger.String("path", path), logger.Int("rows", len(records)))
	return records, nil
}

func (r *Reader) load(ctx context.Context, path string) ([]model.Record, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xlsm" && ext != ".csv" {
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrUnreadable, ext)
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	if ext == ".csv" {
		return r.ReadCSV(ctx, f)
	}
	return r.ReadXLSX(ctx, f)
}

// table converts a header and raw rows into records. cell returns the value
// of column j in data row i, or nil when empty.
func (r *Reader) table(ctx context.Context, header []string, rows int, cell func(i, j int) any) ([]model.Record, error) {
	names := make([]string, len(header))
	hasName := false
	for j, h := range header {
		names[j] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if names[j] != "" {
			hasName = true
		}
	}
	if !hasName {
		return nil, fmt.Errorf("%w: empty header row", ErrSchema)
	}
	if err := r.checkKnown(names); err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, rows)
	for i := 0; i < rows; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
			}
		}
		fields := make(map[string]any, len(names))
		blank := true
		for j, name := range names {
			if name == "" {
				continue
			}
			v := cell(i, j)
			if v != nil {
				blank = false
			}
			if _, dup := fields[name]; dup && v == nil {
				continue
			}
			fields[name] = v
		}
		if blank {
			continue
		}
		records = append(records, model.NewRecord(fields))
	}
	return records, nil
}

func (r *Reader) checkKnown(names []string) error {
	if len(r.known) == 0 {
		return nil
	}
	have := make(map[string]struct{}, len(names))
	for _, n := range names {
		have[n] = struct{}{}
	}
	for _, k := range r.known {
		if _, ok := have[k]; ok {
			return nil
		}
	}
	return fmt.Errorf("%w: none of the expected columns found (e.g. %s)", ErrSchema, r.known[0])
}
