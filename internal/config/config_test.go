package config_test

import (
	"errors"
	"testing"

	"github.com/okian/outfit/internal/config"
	"github.com/okian/outfit/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, config.LogFormatText)
			convey.So(cfg.MaxResults, convey.ShouldEqual, 100)
			convey.So(cfg.RandomSeed, convey.ShouldEqual, int64(0))
			convey.So(cfg.CatalogPath, convey.ShouldBeEmpty)
		})

		convey.Convey("Then the weights match the scoring defaults", func() {
			convey.So(cfg.Weights(), convey.ShouldResemble, scoring.DefaultWeights())
		})

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with out-of-range values", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = "" },
			"unknown log format": func(c *config.Config) { c.LogFormat = "xml" },
			"zero max results":   func(c *config.Config) { c.MaxResults = 0 },
			"zero weight":        func(c *config.Config) { c.CoveredMidWeight = 0 },
			"weight above one":   func(c *config.Config) { c.AccessoryWeight = 1.5 },
			"negative weight":    func(c *config.Config) { c.CoveredBaseWeight = -0.1 },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then "+name+" is rejected as invalid config", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
