package export

import (
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/sohrab4u/consultation/internal/domain/report"
)

// JSON writes a machine-readable run document.
type JSON struct{}

// Format implements Encoder.
func (JSON) Format() string { return FormatJSON }

type jsonDocument struct {
	RunID       string          `json:"run_id"`
	Title       string          `json:"title"`
	GeneratedAt time.Time       `json:"generated_at"`
	Summary     report.Summary  `json:"summary"`
	Metrics     []report.Metric `json:"metrics"`
	Failures    []string        `json:"duration_failure_messages"`
	Warnings    []string        `json:"warnings"`
	Rows        []report.Row    `json:"rows"`
}

// Encode implements Encoder.
func (JSON) Encode(w io.Writer, doc *Document) error {
	out := jsonDocument{
		RunID:       doc.RunID,
		Title:       title(doc),
		GeneratedAt: doc.GeneratedAt,
		Summary:     doc.Summary,
		Metrics:     doc.Summary.Metrics(),
		Failures:    doc.Summary.FailureMessages(doc.FailureLimit),
		Warnings:    doc.Warnings,
		Rows:        doc.Rows,
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	if out.Rows == nil {
		out.Rows = []report.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
