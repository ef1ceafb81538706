// Package samplegen produces synthetic consultation exports for trying the
// report engine end to end without patient data.
package samplegen

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/sohrab4u/consultation/internal/domain/duration"
	"github.com/sohrab4u/consultation/internal/domain/model"
	"github.com/sohrab4u/consultation/internal/domain/scoring"
	"github.com/sohrab4u/consultation/pkg/logger"
)

var statuses = []string{"Completed", "Completed", "Completed", "Cancelled", "Pending"}

var badDurations = []string{"", "abc", "5:99", "1:2:3:4", "--"}

// Vocabulary per column; anything not listed gets a generic note.
var vocabulary = map[string][]string{
	"GenderDisplay":           {"Male", "Female", "Other"},
	"IsFollowUp":              {"Yes", "No"},
	"SentToSpecialityDisplay": {"General Medicine", "Paediatrics", "Dermatology", "ENT"},
	"Symptoms_":               {"Fever", "Cough, cold", "Headache", "Skin rash", "Abdominal pain"},
	"Provisional Diagnosis":   {"Viral fever", "URTI", "Migraine", "Contact dermatitis", "Gastritis"},
	"Advice":                  {"Plenty of fluids", "Rest for 3 days", "Follow up in a week", "Avoid allergens"},
	"Snomed Medicine":         {"Paracetamol 500mg", "Cetirizine 10mg", "Pantoprazole 40mg"},
	"SentByLocationName":      {"PHC Rampur", "HWC Sitapur", "SC Nandgaon"},
	"SentToLocationName":      {"DH Lucknow", "CHC Barabanki"},
}

// Header returns the columns of a generated export in sheet order.
func Header() []string {
	return append([]string{model.ColPatientID, model.ColConsultationID, model.ColDuration}, scoring.BroadRubric()...)
}

// Validate checks the config ranges.
func (c *Config) Validate() error {
	if c.Rows <= 0 {
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidConfig, c.Rows)
	}
	if c.Days <= 0 {
		return fmt.Errorf("%w: days must be positive, got %d", ErrInvalidConfig, c.Days)
	}
	for name, rate := range map[string]float64{
		"fill":         c.FillRate,
		"bad duration": c.BadDurationRate,
		"duplicate":    c.DuplicateRate,
		"marker":       c.MarkerRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: %s rate %v outside [0,1]", ErrInvalidConfig, name, rate)
		}
	}
	return nil
}

type generator struct {
	cfg *Config
	src *rand.ChaCha8
	rng *rand.Rand
}

// Generate creates cfg.Rows consultation records. The same seed always
// yields the same records.
func Generate(ctx context.Context, cfg *Config, stats *Stats) ([]model.Record, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	logger.Get().Info(ctx, "generating consultations", logger.Int("rows", cfg.Rows), logger.Int("seed", int(cfg.Seed)))

	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], cfg.Seed)
	src := rand.NewChaCha8(seed)
	g := &generator{cfg: cfg, src: src, rng: rand.New(src)}

	records := make([]model.Record, 0, cfg.Rows)
	ids := make([]string, 0, cfg.Rows)
	for i := 0; i < cfg.Rows; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}

		id := fmt.Sprintf("C%06d", i+1)
		if len(ids) > 0 && g.chance(cfg.DuplicateRate) {
			id = ids[g.rng.IntN(len(ids))]
			stats.Duplicates++
		}
		ids = append(ids, id)

		rec, bad, marker, err := g.record(id)
		if err != nil {
			return nil, err
		}
		if bad {
			stats.BadDurations++
		}
		if marker {
			stats.Markers++
		}
		records = append(records, rec)
	}

	stats.Generated = len(records)
	stats.Duration = time.Since(start)
	logger.Get().Info(ctx, "generated consultations",
		logger.Int("count", stats.Generated),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("bad_durations", stats.BadDurations),
	)
	return records, nil
}

func (g *generator) chance(rate float64) bool {
	return g.rng.Float64() < rate
}

func (g *generator) record(id string) (model.Record, bool, bool, error) {
	patient, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		return model.Record{}, false, false, fmt.Errorf("patient id: %w", err)
	}

	created := g.cfg.Start.Add(time.Duration(g.rng.IntN(g.cfg.Days)*secondsPerDay+workdayStartSec+g.rng.IntN(workdaySeconds)) * time.Second)
	secs := minConsultSeconds + g.rng.IntN(maxConsultSeconds-minConsultSeconds)

	values := map[string]any{
		model.ColPatientID:      patient.String(),
		model.ColConsultationID: id,
		model.ColCreatedDate:    created,
	}

	bad := g.chance(g.cfg.BadDurationRate)
	if bad {
		values[model.ColDuration] = badDurations[g.rng.IntN(len(badDurations))]
	} else {
		values[model.ColDuration] = clock(secs)
	}

	for _, field := range scoring.BroadRubric() {
		if _, set := values[field]; set {
			continue
		}
		if !g.chance(g.cfg.FillRate) {
			values[field] = ""
			continue
		}
		values[field] = g.value(field, created, secs)
	}

	marker := g.chance(g.cfg.MarkerRate)
	if marker {
		values[scoring.DefaultQuirkField] = scoring.DefaultQuirkMarker
	}
	return model.NewRecord(values), bad, marker, nil
}

func (g *generator) value(field string, created time.Time, secs int) any {
	switch field {
	case "Age":
		return 1 + g.rng.IntN(90)
	case model.ColConsultationStatus:
		return statuses[g.rng.IntN(len(statuses))]
	case "StartDate":
		return created
	case "CloseDate":
		return created.Add(time.Duration(secs) * time.Second)
	case "ABHANumber":
		return fmt.Sprintf("91-%04d-%04d-%04d", g.rng.IntN(10000), g.rng.IntN(10000), g.rng.IntN(10000))
	case model.ColPatientName, "SentByName", "SentToName":
		return fmt.Sprintf("Person %d", g.rng.IntN(100000))
	}
	if words, ok := vocabulary[field]; ok {
		return words[g.rng.IntN(len(words))]
	}
	return "Noted"
}

// clock renders seconds the way the upstream export types them, with hours
// only when needed.
func clock(secs int) string {
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	}
	return duration.Format(secs)
}
