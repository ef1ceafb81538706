package export

import (
	"encoding/csv"
	"io"

	"github.com/sohrab4u/consultation/internal/domain/report"
)

// CSV writes the report rows with a header line and no index column.
type CSV struct{}

// Format implements Encoder.
func (CSV) Format() string { return FormatCSV }

// Encode implements Encoder.
func (CSV) Encode(w io.Writer, doc *Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(report.Header()); err != nil {
		return err
	}
	for i := range doc.Rows {
		if err := cw.Write(doc.Rows[i].Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
