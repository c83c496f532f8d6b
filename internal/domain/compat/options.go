package compat

import (
	"math/rand"

	"github.com/okian/outfit/internal/domain/scoring"
	"github.com/okian/outfit/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for build and lookup diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithScorer replaces the default scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithSeed makes random draws reproducible. Zero keeps the time-based seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // outfit sampling is not security sensitive
		}
	}
}
