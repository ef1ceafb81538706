package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	service "github.com/sohrab4u/consultation/internal/app"
	"github.com/sohrab4u/consultation/internal/config"
	"github.com/sohrab4u/consultation/internal/domain/filter"
	"github.com/sohrab4u/consultation/pkg/logger"
	"github.com/sohrab4u/consultation/pkg/metrics"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

var errUsage = errors.New("usage")

// options holds the per-run command line flags.
type options struct {
	input       string
	from        time.Time
	to          time.Time
	patientID   string
	patientName string
	out         string
	preset      string
	formats     string
}

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	// Initialize logging
	if err := logger.InitWithOptions(logger.WithWriter(stderr)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitFailed
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitFailed
	}
	if cfg.LogFormat == "json" {
		_ = logger.InitWithOptions(logger.WithWriter(stderr), logger.WithJSON(true))
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Flags override the file and environment.
	if opts.out != "" {
		cfg.OutputDir = opts.out
	}
	if opts.preset != "" {
		cfg.RubricPreset = strings.ToLower(opts.preset)
		cfg.RubricFields = nil
	}
	if opts.formats != "" {
		cfg.Formats = splitList(strings.ToLower(opts.formats))
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	svc, err := service.NewFromConfig(cfg, service.WithLogger(log))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	res, err := svc.Run(ctx, service.Request{
		Input:       opts.input,
		From:        opts.from,
		To:          opts.to,
		PatientID:   opts.patientID,
		PatientName: opts.patientName,
	})
	dumpMetrics(ctx, cfg.MetricsTextfile)
	if err != nil {
		log.Error(ctx, "report failed", logger.Error(err))
		return exitFailed
	}

	printResult(stdout, res, cfg.FailureDisplayLimit)
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("consultation-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts     options
		from, to string
	)
	fs.StringVar(&opts.input, "input", "", "Consultation export to score (.xlsx, .xlsm or .csv)")
	fs.StringVar(&from, "from", "", "Keep consultations created on or after this day (YYYY-MM-DD)")
	fs.StringVar(&to, "to", "", "Keep consultations created on or before this day (YYYY-MM-DD)")
	fs.StringVar(&opts.patientID, "patient-id", "", "Case-insensitive PatientId substring")
	fs.StringVar(&opts.patientName, "patient-name", "", "Case-insensitive PatientName substring")
	fs.StringVar(&opts.out, "out", "", "Output directory (overrides output_dir)")
	fs.StringVar(&opts.preset, "preset", "", "Rubric preset: broad or narrow (overrides rubric settings)")
	fs.StringVar(&opts.formats, "formats", "", "Comma-separated exports: csv,xlsx,pdf,json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.input == "" {
		return nil, fmt.Errorf("%w: -input is required", errUsage)
	}

	var err error
	if opts.from, err = filter.ParseDate(from); err != nil {
		return nil, fmt.Errorf("%w: -from: %w", errUsage, err)
	}
	if opts.to, err = filter.ParseDate(to); err != nil {
		return nil, fmt.Errorf("%w: -to: %w", errUsage, err)
	}
	return &opts, nil
}

func printResult(w io.Writer, res *service.Result, limit int) {
	for _, warn := range res.Warnings {
		fmt.Fprintln(w, "warning: "+warn)
	}
	if res.Empty() {
		fmt.Fprintf(w, "No consultations to report (%d loaded, %d after filters)\n", res.Loaded, res.Kept)
		return
	}
	for _, m := range res.Summary.Metrics() {
		fmt.Fprintf(w, "%-36s %s\n", m.Name, m.Value)
	}
	for _, msg := range res.Summary.FailureMessages(limit) {
		fmt.Fprintln(w, "  "+msg)
	}
	for _, f := range res.Files {
		fmt.Fprintln(w, "wrote "+f)
	}
}

func dumpMetrics(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		logger.Get().Warn(ctx, "metrics textfile not written", logger.String("path", path), logger.Error(err))
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
