package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix     = "OUTFIT_"
	EnvConfigFile = "OUTFIT_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if OUTFIT_CONFIG is set
//  3. env (prefix OUTFIT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// OUTFIT_CATALOG_PATH -> catalog_path. Underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("%w: max_results must be positive", ErrInvalidConfig)
	}
	for name, w := range map[string]float64{
		"covered_mid_weight":  c.CoveredMidWeight,
		"covered_base_weight": c.CoveredBaseWeight,
		"accessory_weight":    c.AccessoryWeight,
	} {
		if w <= 0 || w > 1 {
			return fmt.Errorf("%w: %s must be in (0, 1], got %v", ErrInvalidConfig, name, w)
		}
	}
	return nil
}
