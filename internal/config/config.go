// Package config defines the report tool's configuration and how it is loaded.
//
// Conventions:
//   - Provide New() to build a Config with defaults.
//   - Load layers a YAML file and environment variables over the defaults.
//   - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// OutputDir receives the report files.
	OutputDir string `koanf:"output_dir" validate:"required"`

	// RubricPreset names the built-in rubric: broad or narrow.
	RubricPreset string `koanf:"rubric_preset" validate:"omitempty,oneof=broad narrow"`

	// RubricFields, when set, replaces the preset with an explicit field list.
	RubricFields []string `koanf:"rubric_fields" validate:"omitempty,dive,required"`

	// QuirkField and QuirkMarker configure the upstream marker exception.
	// Leave both empty to disable it.
	QuirkField  string `koanf:"quirk_field" validate:"required_with=QuirkMarker"`
	QuirkMarker string `koanf:"quirk_marker" validate:"required_with=QuirkField"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count" validate:"gte=1,lte=1024"`

	// Formats lists the exports to write.
	Formats []string `koanf:"formats" validate:"min=1,dive,oneof=csv xlsx pdf json"`

	// Sheet selects the input worksheet; empty means the first one.
	Sheet string `koanf:"sheet"`

	// DateField is the column the date range filter reads.
	DateField string `koanf:"date_field" validate:"required"`

	// FailureDisplayLimit caps duration failure messages shown in reports.
	FailureDisplayLimit int `koanf:"failure_display_limit" validate:"gte=0"`

	// ReportTitle heads the document exports.
	ReportTitle string `koanf:"report_title" validate:"required"`

	// MetricsTextfile, when set, receives a Prometheus textfile dump after each run.
	MetricsTextfile string `koanf:"metrics_textfile"`

	// Source column names.
	PatientIDField      string `koanf:"patient_id_field" validate:"required"`
	PatientNameField    string `koanf:"patient_name_field" validate:"required"`
	ConsultationIDField string `koanf:"consultation_id_field" validate:"required"`
	StatusField         string `koanf:"status_field" validate:"required"`
	DurationField       string `koanf:"duration_field" validate:"required"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		OutputDir:           "reports",
		RubricPreset:        "broad",
		QuirkField:          "Snomed Medicine",
		QuirkMarker:         "^",
		WorkerCount:         runtime.NumCPU(),
		Formats:             []string{"csv", "xlsx", "pdf", "json"},
		DateField:           "ConsultationCreatedDate",
		FailureDisplayLimit: 10,
		ReportTitle:         "eSanjeevani Teleconsultation Report",
		PatientIDField:      "PatientId",
		PatientNameField:    "PatientName",
		ConsultationIDField: "ConsultationId",
		StatusField:         "ConsultationStatus",
		DurationField:       "HH_MM_SS",
	}
	return c
}
