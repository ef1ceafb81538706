package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sohrab4u/consultation/internal/domain/duration"
	"github.com/sohrab4u/consultation/internal/domain/scoring"
)

// Score band thresholds.
const (
	HighThreshold = 75.0
	LowThreshold  = 50.0
)

// NoValidTimeEntries explains a 00:00 average duration.
const NoValidTimeEntries = "No valid time entries"

// DefaultFailureDisplayLimit caps the failure messages shown to a reader.
const DefaultFailureDisplayLimit = 10

// Band is a completeness range used for bucketing.
type Band string

// Score bands.
const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandOf returns the band a completion score falls in.
func BandOf(score float64) Band {
	switch {
	case score >= HighThreshold:
		return BandHigh
	case score < LowThreshold:
		return BandLow
	default:
		return BandMedium
	}
}

// Summary holds the aggregate statistics of a report.
type Summary struct {
	Total           int     `json:"total"`
	AvgCompletion   float64 `json:"avg_completion"`
	MaxCompletion   float64 `json:"max_completion"`
	MinCompletion   float64 `json:"min_completion"`
	AvgMissing      float64 `json:"avg_missing"`
	AvgDuration     string  `json:"avg_duration"`
	DurationNote    string  `json:"duration_note,omitempty"`
	ParsedDurations int     `json:"parsed_durations"`

	High          int     `json:"high"`
	Medium        int     `json:"medium"`
	Low           int     `json:"low"`
	HighPercent   float64 `json:"high_percent"`
	MediumPercent float64 `json:"medium_percent"`
	LowPercent    float64 `json:"low_percent"`

	Failures []DurationFailure `json:"duration_failures"`
}

// Summarize reduces rows to summary statistics in a single pass.
func Summarize(rows []Row) Summary {
	s := Summary{Total: len(rows), Failures: []DurationFailure{}}

	var sumScore, sumMissing float64
	var sumSecs int
	for i := range rows {
		r := &rows[i]
		sumScore += r.CompletionScore
		sumMissing += r.MissingScore
		if i == 0 || r.CompletionScore > s.MaxCompletion {
			s.MaxCompletion = r.CompletionScore
		}
		if i == 0 || r.CompletionScore < s.MinCompletion {
			s.MinCompletion = r.CompletionScore
		}

		switch BandOf(r.CompletionScore) {
		case BandHigh:
			s.High++
		case BandLow:
			s.Low++
		}

		if r.DurationErr == nil {
			sumSecs += r.DurationSeconds
			s.ParsedDurations++
		} else {
			s.Failures = append(s.Failures, DurationFailure{
				RowNumber:      r.RowNumber,
				ConsultationID: r.ConsultationID,
				Reason:         r.DurationErr.Error(),
			})
		}
	}
	s.Medium = s.Total - s.High - s.Low

	if s.Total > 0 {
		n := float64(s.Total)
		s.AvgCompletion = scoring.Round2(sumScore / n)
		s.AvgMissing = scoring.Round2(sumMissing / n)
		s.HighPercent = scoring.Round2(100 * float64(s.High) / n)
		s.MediumPercent = scoring.Round2(100 * float64(s.Medium) / n)
		s.LowPercent = scoring.Round2(100 * float64(s.Low) / n)
	}

	if s.ParsedDurations > 0 {
		avg := float64(sumSecs) / float64(s.ParsedDurations)
		s.AvgDuration = duration.Format(int(math.Floor(avg)))
	} else {
		s.AvgDuration = duration.Format(0)
		s.DurationNote = NoValidTimeEntries
	}
	return s
}

// FailureMessages returns at most limit failure messages, followed by a
// "...and N more" line when some were left out. A limit of 0 or less shows
// all of them.
func (s Summary) FailureMessages(limit int) []string {
	shown := len(s.Failures)
	if limit > 0 && shown > limit {
		shown = limit
	}
	out := make([]string, 0, shown+1)
	for _, f := range s.Failures[:shown] {
		out = append(out, f.Message())
	}
	if rest := len(s.Failures) - shown; rest > 0 {
		out = append(out, fmt.Sprintf("...and %d more", rest))
	}
	return out
}

// Metric is one named, formatted summary value.
type Metric struct {
	Name  string `json:"metric"`
	Value string `json:"value"`
}

// Metrics lists the summary in display order for dashboards and documents.
func (s Summary) Metrics() []Metric {
	pct := func(v float64) string { return fmt.Sprintf("%.2f%%", v) }
	avgTime := s.AvgDuration
	if s.DurationNote != "" {
		avgTime += " (" + s.DurationNote + ")"
	}
	return []Metric{
		{"Total Patients", strconv.Itoa(s.Total)},
		{"Average Completion Score", pct(s.AvgCompletion)},
		{"Maximum Completion Score", pct(s.MaxCompletion)},
		{"Minimum Completion Score", pct(s.MinCompletion)},
		{"Average Missing Score", pct(s.AvgMissing)},
		{"Average Consultation Time (MM:SS)", avgTime},
		{"High Completion (>= 75%)", strconv.Itoa(s.High)},
		{"High Completion Share", pct(s.HighPercent)},
		{"Medium Completion (50-75%)", strconv.Itoa(s.Medium)},
		{"Medium Completion Share", pct(s.MediumPercent)},
		{"Low Completion (< 50%)", strconv.Itoa(s.Low)},
		{"Low Completion Share", pct(s.LowPercent)},
		{"Duration Parse Failures", strconv.Itoa(len(s.Failures))},
	}
}
