// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import "github.com/okian/outfit/internal/domain/scoring"

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a JSON catalog loaded on start. Empty starts with
	// an empty catalog until one is uploaded.
	CatalogPath string `koanf:"catalog_path"`

	// MaxResults caps list responses such as GET /combinations?limit.
	MaxResults int `koanf:"max_results"`

	// RandomSeed makes random draws reproducible. Zero seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`

	// Layering weights for covered and accessory garments, each in (0, 1].
	CoveredMidWeight  float64 `koanf:"covered_mid_weight"`
	CoveredBaseWeight float64 `koanf:"covered_base_weight"`
	AccessoryWeight   float64 `koanf:"accessory_weight"`
}

// New creates a Config with defaults.
func New() *Config {
	w := scoring.DefaultWeights()
	return &Config{
		LogLevel:          "info",
		LogFormat:         LogFormatText,
		Addr:              ":9080",
		MaxResults:        100,
		CoveredMidWeight:  w.CoveredMid,
		CoveredBaseWeight: w.CoveredBase,
		AccessoryWeight:   w.Accessory,
	}
}

// Weights returns the configured layering weights.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		CoveredMid:  c.CoveredMidWeight,
		CoveredBase: c.CoveredBaseWeight,
		Accessory:   c.AccessoryWeight,
	}
}
