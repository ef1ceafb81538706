// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Column names of the consultation export the engine reads directly.
const (
	ColPatientID          = "PatientId"
	ColPatientName        = "PatientName"
	ColConsultationID     = "ConsultationId"
	ColConsultationStatus = "ConsultationStatus"
	ColCreatedDate        = "ConsultationCreatedDate"
	ColDuration           = "HH_MM_SS"
	ColSymptoms           = "Symptoms_"
	ColDiagnosis          = "Provisional Diagnosis"
	ColAdvice             = "Advice"
)

// ClockTime is a time-of-day value whose components are already separated,
// as produced by spreadsheet cells formatted as time.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// String renders the value as HH:MM:SS.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Record is one consultation row. Values are nil (absent or null), string,
// float64, time.Time or ClockTime. A Record is never mutated by the engine.
type Record struct {
	fields map[string]any
}

// NewRecord builds a record from a column -> value map. The map is copied.
func NewRecord(fields map[string]any) Record {
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Record{fields: cp}
}

// Get returns the raw value of a column and whether the column exists.
func (r Record) Get(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Has reports whether the column exists on the record, regardless of value.
func (r Record) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Text returns the textual form of a column. ok is false when the column is
// absent or null.
func (r Record) Text(name string) (string, bool) {
	v, ok := r.fields[name]
	if !ok || IsNull(v) {
		return "", false
	}
	return ToText(v), true
}

// TextOr returns the textual form of a column, or def when absent, null or
// empty.
func (r Record) TextOr(name, def string) string {
	s, ok := r.Text(name)
	if !ok || s == "" {
		return def
	}
	return s
}

// Columns returns the record's column names in sorted order.
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r.fields))
	for k := range r.fields {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// IsNull reports whether a cell value counts as null: nil or a NaN float.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case *string:
		return x == nil
	}
	return false
}

// ToText renders a non-null cell value the way it would appear in the sheet.
func ToText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	case ClockTime:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
