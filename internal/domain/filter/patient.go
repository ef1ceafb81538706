package filter

import (
	"fmt"
	"strings"

	"github.com/sohrab4u/consultation/internal/domain/model"
	"golang.org/x/text/cases"
)

// PatientQuery narrows records by patient identifier and name. Both terms
// are case-insensitive substrings; an empty term matches everything and the
// two terms are ANDed.
type PatientQuery struct {
	ID        string
	Name      string
	IDField   string
	NameField string
}

// IsZero reports whether the query imposes no constraint.
func (q PatientQuery) IsZero() bool {
	return strings.TrimSpace(q.ID) == "" && strings.TrimSpace(q.Name) == ""
}

// ByPatient keeps the records matching q. A missing value never matches a
// non-empty term. When the query is malformed the original records are
// returned with an *Error.
func ByPatient(records []model.Record, q PatientQuery) ([]model.Record, error) {
	id := strings.TrimSpace(q.ID)
	name := strings.TrimSpace(q.Name)
	if len(records) == 0 || (id == "" && name == "") {
		return records, nil
	}
	if id != "" && q.IDField == "" {
		return records, &Error{Filter: NamePatient, Err: fmt.Errorf("%w: id", ErrFieldUnset)}
	}
	if name != "" && q.NameField == "" {
		return records, &Error{Filter: NamePatient, Err: fmt.Errorf("%w: name", ErrFieldUnset)}
	}

	// A Caser keeps state, so each call gets its own.
	fold := cases.Fold()
	id = fold.String(id)
	name = fold.String(name)

	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if id != "" && !contains(fold, rec, q.IDField, id) {
			continue
		}
		if name != "" && !contains(fold, rec, q.NameField, name) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func contains(fold cases.Caser, rec model.Record, field, term string) bool {
	v, ok := rec.Text(field)
	if !ok || v == "" {
		return false
	}
	return strings.Contains(fold.String(v), term)
}
