package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sohrab4u/consultation/internal/samplegen"
	"github.com/sohrab4u/consultation/pkg/logger"
)

const defaultTimeout = 2 * time.Minute

func main() {
	def := samplegen.DefaultConfig()
	var (
		output     = flag.String("output", "", "Output workbook (default: sample_consultations_TIMESTAMP.xlsx)")
		rows       = flag.Int("rows", def.Rows, "Number of consultations to generate")
		seed       = flag.Uint64("seed", def.Seed, "Seed for reproducible output")
		fill       = flag.Float64("fill", def.FillRate, "Chance that a rubric field is filled")
		bad        = flag.Float64("bad-durations", def.BadDurationRate, "Chance of an empty or malformed HH_MM_SS")
		duplicates = flag.Float64("duplicates", def.DuplicateRate, "Chance of a repeated ConsultationId")
		markers    = flag.Float64("markers", def.MarkerRate, "Chance that Snomed Medicine holds only the marker")
		days       = flag.Int("days", def.Days, "Consultation days spread from -start")
		start      = flag.String("start", def.Start.Format(time.DateOnly), "First consultation day (YYYY-MM-DD)")
		sheet      = flag.String("sheet", def.Sheet, "Worksheet name")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	first, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		logger.Get().Error(ctx, "invalid start day", logger.String("start", *start), logger.Error(err))
		os.Exit(1)
	}

	cfg := &samplegen.Config{
		Rows:            *rows,
		Seed:            *seed,
		FillRate:        *fill,
		BadDurationRate: *bad,
		DuplicateRate:   *duplicates,
		MarkerRate:      *markers,
		Start:           first,
		Days:            *days,
		Sheet:           *sheet,
	}

	path := *output
	if path == "" {
		path = "sample_consultations_" + time.Now().Format("20060102_150405") + ".xlsx"
	}

	var stats samplegen.Stats
	records, err := samplegen.Generate(ctx, cfg, &stats)
	if err != nil {
		logger.Get().Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}
	if err := samplegen.WriteFile(path, records, cfg.Sheet); err != nil {
		logger.Get().Error(ctx, "write failed", logger.String("path", path), logger.Error(err))
		os.Exit(1)
	}

	logger.Get().Info(ctx, "sample workbook written",
		logger.String("path", path),
		logger.Int("rows", stats.Generated),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("bad_durations", stats.BadDurations),
		logger.Int("markers", stats.Markers),
		logger.Duration("took", stats.Duration),
	)
}
