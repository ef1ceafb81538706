package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/sohrab4u/consultation/internal/domain/model"
)

// ReadCSV reads a comma-separated export. The first line is the header and
// every value stays text; empty cells become nil.
func (r *Reader) ReadCSV(ctx context.Context, src io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", ErrSchema)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	return r.table(ctx, header, len(rows), func(i, j int) any {
		row := rows[i]
		if j >= len(row) || row[j] == "" {
			return nil
		}
		return row[j]
	})
}
