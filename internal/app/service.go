// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/outfit/internal/adapters/catalog"
	repository "github.com/okian/outfit/internal/adapters/repository"
	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
	"github.com/okian/outfit/internal/domain/scoring"
	"github.com/okian/outfit/pkg/logger"
)

// Service implements the API dependencies for the outfit engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  *repository.IndexStore
	scorer *scoring.Scorer

	// Configuration
	catalogPath string
	seed        int64
	weights     scoring.Weights

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCatalogPath sets the catalog file loaded on Start.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		s.catalogPath = path
	}
}

// WithRandomSeed makes random draws reproducible. Zero seeds from the clock.
func WithRandomSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithWeights sets the layering weights used for scoring.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// New constructs a new Service serving an empty catalog until Start or
// ReplaceCatalog supplies one.
func New(opts ...Option) *Service {
	s := &Service{
		weights: scoring.DefaultWeights(),
		logger:  logger.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.scorer = scoring.NewScorer(scoring.WithWeights(s.weights))
	s.store = repository.NewIndexStore(context.Background(),
		repository.WithLogger(s.logger.Named("index")),
		repository.WithEngineOptions(
			compat.WithLogger(s.logger.Named("compat")),
			compat.WithScorer(s.scorer),
			compat.WithSeed(s.seed),
		),
	)
	return s
}

// Start loads the configured catalog, if any.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting outfit service...")

	if s.catalogPath != "" {
		c, err := catalog.LoadFile(ctx, s.catalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		if _, err := s.store.Replace(ctx, c); err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		s.logger.Info(ctx, "catalog loaded",
			logger.String("path", s.catalogPath),
			logger.Int("garments", len(c.Garments)),
			logger.Int("combinations", len(c.Combinations)),
		)
	}

	s.started = true
	w := s.scorer.Weights()
	s.logger.Info(ctx, "outfit service started",
		logger.Int("combinations", s.store.Current().Size()),
		logger.Float64("coveredMidWeight", w.CoveredMid),
		logger.Float64("coveredBaseWeight", w.CoveredBase),
		logger.Float64("accessoryWeight", w.Accessory),
	)
	return nil
}

// Stop marks the service stopped. The published index stays readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "outfit service stopped")
}

// ReplaceCatalog validates c and rebuilds the index from it.
func (s *Service) ReplaceCatalog(ctx context.Context, c *model.Catalog) (bool, error) {
	if err := catalog.Validate(c); err != nil {
		return false, err
	}
	return s.store.Replace(ctx, c)
}

// Catalog returns the catalog behind the published index.
func (s *Service) Catalog() *model.Catalog {
	return s.store.Catalog()
}

// Revision identifies the published index.
func (s *Service) Revision() string {
	return s.store.Current().Revision()
}

// Score scores c with the configured weights. Garments given by id only are
// resolved against the current catalog first.
func (s *Service) Score(_ context.Context, c model.Combination) scoring.Breakdown {
	e := s.store.Current()
	return e.Score(resolve(e, c))
}

// All returns up to limit indexed combinations in rank order. A limit below
// one returns the whole index.
func (s *Service) All(ctx context.Context, limit int) []compat.ScoredCombination {
	all := s.store.Current().All(ctx)
	if limit > 0 && limit < len(all) {
		return all[:limit:limit]
	}
	return all
}

// ForAnchor returns the combinations holding garment id in cat. An id the
// catalog does not know matches nothing and yields an empty list.
func (s *Service) ForAnchor(ctx context.Context, cat model.Category, id string) ([]compat.ScoredCombination, error) {
	e := s.store.Current()
	g, ok := e.Garment(id)
	if !ok {
		g = &model.Garment{ID: id, Category: cat}
	}
	return e.ForAnchor(ctx, cat, g), nil
}

// CompatibleItems returns garments in cat that fit partial.
func (s *Service) CompatibleItems(ctx context.Context, cat model.Category, partial model.Combination) []*model.Garment {
	e := s.store.Current()
	return e.CompatibleItems(ctx, cat, resolve(e, partial))
}

// Filtered returns the indexed combinations consistent with partial.
func (s *Service) Filtered(ctx context.Context, partial model.Combination) []compat.ScoredCombination {
	e := s.store.Current()
	return e.Filtered(ctx, resolve(e, partial))
}

// ValidatePartial checks partial exactly as given, without catalog lookups.
func (s *Service) ValidatePartial(ctx context.Context, partial model.Combination) bool {
	return s.store.Current().ValidatePartial(ctx, partial)
}

// Random draws one indexed combination.
func (s *Service) Random(ctx context.Context) (compat.ScoredCombination, bool) {
	return s.store.Current().Random(ctx)
}

// Sample draws one indexed combination consistent with partial.
func (s *Service) Sample(ctx context.Context, partial model.Combination) (compat.ScoredCombination, bool) {
	e := s.store.Current()
	return e.Sample(ctx, resolve(e, partial))
}

// Complete derives a combination around partial.
func (s *Service) Complete(ctx context.Context, partial model.Combination) (compat.ScoredCombination, bool) {
	e := s.store.Current()
	return e.Complete(ctx, resolve(e, partial))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.store.Current().Stats()
	return map[string]interface{}{
		"started":         s.started,
		"catalogPath":     s.catalogPath,
		"revision":        st.Revision,
		"builtAt":         st.BuiltAt,
		"garments":        st.Garments,
		"combinations":    st.Combinations,
		"dropped":         st.Dropped,
		"compatibleCache": st.CompatibleCache,
		"filteredCache":   st.FilteredCache,
	}
}

// resolve swaps garments known to the catalog for their catalog entry, so
// requests may name garments by id alone. Unknown garments are kept and get
// their slot's category when they carry none.
func resolve(e *compat.Engine, partial model.Combination) model.Combination {
	out := partial
	for _, cat := range partial.Filled() {
		g := partial.Get(cat)
		if known, ok := e.Garment(g.ID); ok && known.Category == cat {
			out = out.With(cat, known)
			continue
		}
		if !g.Category.Valid() {
			cp := *g
			cp.Category = cat
			out = out.With(cat, &cp)
		}
	}
	return out
}
