// Package scoring computes how complete a consultation record is against a
// field rubric.
package scoring

import (
	"math"
	"strings"

	"github.com/sohrab4u/consultation/internal/domain/model"
)

// Default marker quirk: the upstream exporter joins SNOMED medicine codes and
// terms with '^', and some of those cells arrive half-serialized.
const (
	DefaultQuirkField  = "Snomed Medicine"
	DefaultQuirkMarker = "^"
)

// MarkerQuirk names a field whose value counts as filled whenever it contains
// Marker, whatever else the value looks like.
type MarkerQuirk struct {
	Field  string
	Marker string
}

// Enabled reports whether the quirk applies to anything.
func (q MarkerQuirk) Enabled() bool { return q.Field != "" && q.Marker != "" }

// Matches reports whether value of field is covered by the quirk.
func (q MarkerQuirk) Matches(field string, value any) bool {
	if !q.Enabled() || field != q.Field {
		return false
	}
	s, ok := value.(string)
	if !ok {
		return false
	}
	return strings.Contains(s, q.Marker)
}

// Result contains the completeness score of one record.
type Result struct {
	Percent        float64
	MissingPercent float64
	Filled         []string
	Missing        []string
	// Quirked lists filled fields that were accepted through the marker quirk.
	Quirked []string
}

// Scorer scores records against a rubric. It holds no mutable state and is
// safe for concurrent use.
type Scorer struct {
	rubric Rubric
	quirk  MarkerQuirk
}

// NewScorer creates a scorer with the broad rubric and the default quirk.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		rubric: BroadRubric(),
		quirk:  MarkerQuirk{Field: DefaultQuirkField, Marker: DefaultQuirkMarker},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Rubric returns a copy of the scorer's rubric.
func (s *Scorer) Rubric() Rubric {
	return append(Rubric(nil), s.rubric...)
}

// Score evaluates rec against the rubric. Filled and Missing keep rubric order
// and together cover the rubric exactly once.
func (s *Scorer) Score(rec model.Record) Result {
	n := len(s.rubric)
	res := Result{
		Filled:  make([]string, 0, n),
		Missing: make([]string, 0, n),
	}

	for _, field := range s.rubric {
		v, ok := rec.Get(field)
		if ok && s.quirk.Matches(field, v) {
			res.Filled = append(res.Filled, field)
			res.Quirked = append(res.Quirked, field)
			continue
		}
		if ok && isFilled(v) {
			res.Filled = append(res.Filled, field)
			continue
		}
		res.Missing = append(res.Missing, field)
	}

	if n > 0 {
		res.Percent = Round2(100 * float64(len(res.Filled)) / float64(n))
		res.MissingPercent = Round2(100 * float64(n-len(res.Filled)) / float64(n))
	}
	return res
}

func isFilled(v any) bool {
	if model.IsNull(v) {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
