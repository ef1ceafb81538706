package samplegen

import "time"

// Config holds the shape of a generated consultation export.
type Config struct {
	Rows            int       // Number of consultations to generate
	Seed            uint64    // Seed for reproducible output
	FillRate        float64   // Chance that a rubric field is filled
	BadDurationRate float64   // Chance that HH_MM_SS is empty or malformed
	DuplicateRate   float64   // Chance that a row repeats an earlier ConsultationId
	MarkerRate      float64   // Chance that Snomed Medicine holds only the marker
	Start           time.Time // First consultation day
	Days            int       // Consultation days spread from Start
	Sheet           string    // Worksheet name
}

// Stats holds generation statistics.
type Stats struct {
	Generated    int
	Duplicates   int
	BadDurations int
	Markers      int
	Duration     time.Duration
}

// DefaultConfig returns a config producing a realistic mix of records.
func DefaultConfig() *Config {
	return &Config{
		Rows:            defaultRows,
		Seed:            1,
		FillRate:        defaultFillRate,
		BadDurationRate: defaultBadDurationRate,
		DuplicateRate:   defaultDuplicateRate,
		MarkerRate:      defaultMarkerRate,
		Start:           time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		Days:            defaultDays,
		Sheet:           DefaultSheet,
	}
}
