package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/sohrab4u/consultation/internal/config"
)

var configEnvVars = []string{
	"CONSULTATION_CONFIG",
	"CONSULTATION_OUTPUT_DIR",
	"CONSULTATION_WORKER_COUNT",
	"CONSULTATION_FORMATS",
	"CONSULTATION_RUBRIC_FIELDS",
	"CONSULTATION_RUBRIC_PRESET",
	"CONSULTATION_LOG_LEVEL",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("CONSULTATION_OUTPUT_DIR", "/tmp/out")
			_ = os.Setenv("CONSULTATION_WORKER_COUNT", "16")
			_ = os.Setenv("CONSULTATION_FORMATS", "CSV, pdf")
			_ = os.Setenv("CONSULTATION_RUBRIC_FIELDS", "PatientName,Age ,Advice")
			_ = os.Setenv("CONSULTATION_LOG_LEVEL", "DEBUG")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputDir, convey.ShouldEqual, "/tmp/out")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})

			convey.Convey("Then lists should replace the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Formats, convey.ShouldResemble, []string{"csv", "pdf"})
				convey.So(cfg.RubricFields, convey.ShouldResemble, []string{"PatientName", "Age", "Advice"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "output_dir: ./yaml-out\n" +
				"rubric_preset: narrow\n" +
				"formats:\n  - xlsx\n" +
				"failure_display_limit: 3\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("CONSULTATION_CONFIG", path)
			_ = os.Setenv("CONSULTATION_OUTPUT_DIR", "./env-out")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should apply and env should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RubricPreset, convey.ShouldEqual, "narrow")
				convey.So(cfg.Formats, convey.ShouldResemble, []string{"xlsx"})
				convey.So(cfg.FailureDisplayLimit, convey.ShouldEqual, 3)
				convey.So(cfg.OutputDir, convey.ShouldEqual, "./env-out")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("CONSULTATION_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When env sets an invalid value", func() {
			clearConfigEnvVars()
			_ = os.Setenv("CONSULTATION_RUBRIC_PRESET", "clinical")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
