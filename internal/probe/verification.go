package probe

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
	"github.com/okian/outfit/pkg/logger"
)

// verifyRanking compares the service's top combinations with the local index.
func verifyRanking(ctx context.Context, client *HTTPClient, local *compat.Engine, topN int, stats *Stats) error {
	logger.Get().Info(ctx, "verifying ranking", logger.Int("topN", topN))

	var remote listResponse
	if err := client.Get(ctx, "/combinations?limit="+strconv.Itoa(topN), &remote); err != nil {
		return err
	}

	want := local.All(ctx)
	if topN < len(want) {
		want = want[:topN]
	}
	if len(remote.Combinations) != len(want) {
		return fmt.Errorf("%w: ranking has %d entries, want %d", ErrMismatch, len(remote.Combinations), len(want))
	}

	for i, got := range remote.Combinations {
		if i > 0 && got.Score > remote.Combinations[i-1].Score {
			return fmt.Errorf("%w: ranking not sorted at position %d", ErrMismatch, i)
		}
		if got.ID != want[i].ID || got.Score != want[i].Score {
			return fmt.Errorf("%w: position %d is %s (%d), want %s (%d)",
				ErrMismatch, i, got.ID, got.Score, want[i].ID, want[i].Score)
		}
	}

	stats.RankingChecked = len(want)
	logger.Get().Info(ctx, "ranking verified", logger.Int("entries", len(want)))
	return nil
}

// runQueries cross-checks compatibility and filter lookups concurrently.
func runQueries(ctx context.Context, config *Config, client *HTTPClient, local *compat.Engine, queries []Query, stats *Stats) error {
	logger.Get().Info(ctx, "running compatibility queries",
		logger.Int("queries", len(queries)),
		logger.Int("workers", config.Workers))

	var (
		sent       int64
		matched    int64
		mismatched int64
		failed     int64
	)

	queryChan := make(chan Query, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for q := range queryChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddInt64(&sent, 1)
				err := checkQuery(ctx, client, local, q)
				switch {
				case err == nil:
					atomic.AddInt64(&matched, 1)
				case errors.Is(err, ErrMismatch):
					atomic.AddInt64(&mismatched, 1)
					logger.Get().Warn(ctx, "query mismatch",
						logger.String("category", q.Category.Key()),
						logger.String("partial", q.Partial.Key()),
						logger.Error(err))
				default:
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "query failed", logger.Error(err))
					}
				}
			}
		}()
	}

	go func() {
		defer close(queryChan)
		for _, q := range queries {
			select {
			case <-ctx.Done():
				return
			case queryChan <- q:
			}
		}
	}()

	wg.Wait()

	stats.QueriesSent = int(atomic.LoadInt64(&sent))
	stats.QueriesMatched = int(atomic.LoadInt64(&matched))
	stats.QueriesMismatched = int(atomic.LoadInt64(&mismatched))
	stats.QueriesFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "queries completed",
		logger.Int("matched", stats.QueriesMatched),
		logger.Int("mismatched", stats.QueriesMismatched),
		logger.Int("failed", stats.QueriesFailed))

	if stats.QueriesMismatched > 0 || stats.QueriesFailed > 0 {
		return fmt.Errorf("%w: %d mismatched, %d failed of %d queries",
			ErrMismatch, stats.QueriesMismatched, stats.QueriesFailed, stats.QueriesSent)
	}
	return nil
}

// checkQuery sends one query to /compatible and /filter and compares both
// answers with the local index.
func checkQuery(ctx context.Context, client *HTTPClient, local *compat.Engine, q Query) error {
	var items garmentsResponse
	if err := client.Post(ctx, "/compatible", q, &items); err != nil {
		return err
	}
	if want := local.CompatibleItems(ctx, q.Category, q.Partial); !sameGarmentIDs(items.Garments, want) {
		return fmt.Errorf("%w: compatible %s returned %d garments, want %d",
			ErrMismatch, q.Category.Key(), len(items.Garments), len(want))
	}

	var filtered listResponse
	if err := client.Post(ctx, "/filter", partialRequest{Partial: q.Partial}, &filtered); err != nil {
		return err
	}
	if want := local.Filtered(ctx, q.Partial); !sameCombinationIDs(filtered.Combinations, want) {
		return fmt.Errorf("%w: filter returned %d combinations, want %d",
			ErrMismatch, len(filtered.Combinations), len(want))
	}
	return nil
}

// sameGarmentIDs reports whether a and b list the same garment ids in order.
func sameGarmentIDs(a, b []*model.Garment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// sameCombinationIDs reports whether a and b list the same combinations in order.
func sameCombinationIDs(a, b []compat.ScoredCombination) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
