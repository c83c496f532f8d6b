package repository

import (
	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/pkg/logger"
)

// Option applies a configuration option to the IndexStore.
type Option func(*IndexStore)

// WithEngineOptions sets the options every rebuilt engine is constructed with.
func WithEngineOptions(opts ...compat.Option) Option {
	return func(s *IndexStore) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithLogger sets the logger for rebuild events.
func WithLogger(l logger.Logger) Option {
	return func(s *IndexStore) {
		if l != nil {
			s.logger = l
		}
	}
}
