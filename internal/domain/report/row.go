// Package report turns consultation records into scored report rows and
// aggregates them into summary statistics.
package report

import (
	"fmt"
	"strconv"
	"strings"
)

// Header names in the fixed column order shared by every tabular export.
const (
	HeaderPatientID       = "PatientId"
	HeaderConsultationID  = "ConsultationId"
	HeaderCompletionScore = "CompletionScore (%)"
	HeaderMissingScore    = "MissingScore (%)"
	HeaderFilledFields    = "FilledFields"
	HeaderMissingFields   = "MissingFields"
	HeaderTimeTaken       = "TimeTaken (MM:SS)"
	HeaderStatus          = "Status"
	HeaderSymptoms        = "Symptoms"
	HeaderDiagnosis       = "Diagnosis"
	HeaderAdvice          = "Advice"
)

// Unknown is the placeholder for missing identifiers and status.
const Unknown = "Unknown"

// NoFields is shown for an empty field list.
const NoFields = "None"

// Header returns the export column order.
func Header() []string {
	return []string{
		HeaderPatientID,
		HeaderConsultationID,
		HeaderCompletionScore,
		HeaderMissingScore,
		HeaderFilledFields,
		HeaderMissingFields,
		HeaderTimeTaken,
		HeaderStatus,
		HeaderSymptoms,
		HeaderDiagnosis,
		HeaderAdvice,
	}
}

// Row is one record's scoring result plus its pass-through display fields.
type Row struct {
	// RowNumber is the 1-based position of the record in the input.
	RowNumber       int      `json:"row"`
	PatientID       string   `json:"patient_id"`
	ConsultationID  string   `json:"consultation_id"`
	CompletionScore float64  `json:"completion_score"`
	MissingScore    float64  `json:"missing_score"`
	FilledFields    []string `json:"filled_fields"`
	MissingFields   []string `json:"missing_fields"`
	TimeTaken       string   `json:"time_taken"`
	Status          string   `json:"status"`
	Symptoms        string   `json:"symptoms"`
	Diagnosis       string   `json:"diagnosis"`
	Advice          string   `json:"advice"`

	// DurationSeconds is valid only when DurationErr is nil.
	DurationSeconds int   `json:"duration_seconds,omitempty"`
	DurationErr     error `json:"-"`
}

// DurationParsed reports whether the row's duration contributed to averages.
func (r *Row) DurationParsed() bool { return r.DurationErr == nil }

// Values renders the row in Header order.
func (r *Row) Values() []string {
	return []string{
		r.PatientID,
		r.ConsultationID,
		FormatScore(r.CompletionScore),
		FormatScore(r.MissingScore),
		JoinFields(r.FilledFields),
		JoinFields(r.MissingFields),
		r.TimeTaken,
		r.Status,
		r.Symptoms,
		r.Diagnosis,
		r.Advice,
	}
}

// FormatScore renders a percentage with two decimals and no sign.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// JoinFields renders a field list, or NoFields when it is empty.
func JoinFields(fields []string) string {
	if len(fields) == 0 {
		return NoFields
	}
	return strings.Join(fields, ", ")
}

// DurationFailure records a duration that could not be parsed.
type DurationFailure struct {
	RowNumber      int    `json:"row"`
	ConsultationID string `json:"consultation_id"`
	Reason         string `json:"reason"`
}

// Message is the human-readable form shown in reports.
func (f DurationFailure) Message() string {
	return fmt.Sprintf("Row %d (ConsultationId %s): %s", f.RowNumber, f.ConsultationID, f.Reason)
}

// Batch is the output of one Build call.
type Batch struct {
	Rows     []Row
	Failures []DurationFailure
}
