package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/sohrab4u/consultation/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.OutputDir, convey.ShouldEqual, "reports")
			convey.So(cfg.RubricPreset, convey.ShouldEqual, "broad")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.Formats, convey.ShouldResemble, []string{"csv", "xlsx", "pdf", "json"})
			convey.So(cfg.FailureDisplayLimit, convey.ShouldEqual, 10)
			convey.So(cfg.QuirkField, convey.ShouldEqual, "Snomed Medicine")
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid values", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"unknown format", func(c *config.Config) { c.Formats = []string{"docx"} }},
			{"no formats", func(c *config.Config) { c.Formats = nil }},
			{"zero workers", func(c *config.Config) { c.WorkerCount = 0 }},
			{"unknown preset", func(c *config.Config) { c.RubricPreset = "clinical" }},
			{"blank rubric field", func(c *config.Config) { c.RubricFields = []string{"Age", ""} }},
			{"marker without field", func(c *config.Config) { c.QuirkField = "" }},
			{"bad log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"no output dir", func(c *config.Config) { c.OutputDir = "" }},
			{"negative limit", func(c *config.Config) { c.FailureDisplayLimit = -1 }},
		}

		for _, tc := range cases {
			convey.Convey("When the config has "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation should fail", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})

	convey.Convey("Given a config with the marker quirk disabled", t, func() {
		cfg := config.New()
		cfg.QuirkField = ""
		cfg.QuirkMarker = ""

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
