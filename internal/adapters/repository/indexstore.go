package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
	"github.com/okian/outfit/pkg/logger"
	"github.com/okian/outfit/pkg/metrics"
)

// IndexStore publishes immutable engines through an atomic pointer.
//
// Readers load the pointer and keep using the engine they got, so they always
// see either the previous index or the next one in full. Rebuilds are
// serialized by writeMu and never touch a published engine.
type IndexStore struct {
	writeMu sync.Mutex
	catalog *model.Catalog

	current atomic.Pointer[compat.Engine]

	engineOpts []compat.Option
	logger     logger.Logger
}

var _ Store = (*IndexStore)(nil)

// NewIndexStore creates a store serving an index over an empty catalog.
func NewIndexStore(ctx context.Context, opts ...Option) *IndexStore {
	s := &IndexStore{logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.publish(ctx, &model.Catalog{})
	return s
}

// Current returns the published engine.
func (s *IndexStore) Current() *compat.Engine {
	return s.current.Load()
}

// Catalog returns the catalog the published engine was built from.
func (s *IndexStore) Catalog() *model.Catalog {
	return s.Current().Catalog()
}

// Replace rebuilds the index when catalog differs from the current snapshot.
// Catalogs are compared by reference: a host mutating a catalog in place must
// pass a new value to trigger a rebuild.
func (s *IndexStore) Replace(ctx context.Context, catalog *model.Catalog) (bool, error) {
	if catalog == nil {
		return false, ErrNilCatalog
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if catalog == s.catalog {
		return false, nil
	}
	s.publish(ctx, catalog)
	return true, nil
}

// publish builds and swaps in a new engine. Callers hold writeMu, except the
// constructor which runs before the store is shared.
func (s *IndexStore) publish(ctx context.Context, catalog *model.Catalog) {
	start := time.Now()
	e := compat.New(ctx, catalog, s.engineOpts...)
	ms := float64(time.Since(start).Nanoseconds()) / 1e6

	s.catalog = catalog
	prev := s.current.Swap(e)

	metrics.RecordIndexRebuild(ms, time.Now().Unix())
	metrics.UpdateIndexSize(e.Size(), len(catalog.Garments))

	fields := []logger.Field{
		logger.String("revision", e.Revision()),
		logger.Int("combinations", e.Size()),
		logger.Float64("duration_ms", ms),
	}
	if prev != nil {
		fields = append(fields, logger.String("previous_revision", prev.Revision()))
	}
	s.logger.Info(ctx, "index published", fields...)
}
