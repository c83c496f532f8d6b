// Package compat builds a ranked, filterable index over a catalog's curated
// combinations and answers compatibility lookups against it.
//
// An Engine is built once per catalog snapshot and is read-only afterwards
// apart from its lookup caches. To pick up a new catalog, build a new Engine.
// Lookups never fail: malformed input yields empty results and a log entry.
package compat

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/outfit/internal/domain/model"
	"github.com/okian/outfit/internal/domain/scoring"
	"github.com/okian/outfit/internal/validation"
	"github.com/okian/outfit/pkg/logger"
	"github.com/okian/outfit/pkg/metrics"
)

// Source tells where a scored combination came from.
type Source string

// Sources.
const (
	SourceCurated Source = "curated"
	SourceDerived Source = "derived"
)

// Resolution failure reasons, also used as metric labels.
const (
	reasonUnknownGarment    = "unknown_garment"
	reasonInvalidCategory   = "invalid_category"
	reasonDuplicateCategory = "duplicate_category"
	reasonEmptyCombination  = "empty_combination"
)

// Hard incompatibility: shorts with boots.
const (
	shortsMarker = "shorts"
	bootsMarker  = "boots"
)

// ScoredCombination is a combination with its score and provenance.
type ScoredCombination struct {
	ID          string            `json:"id"`
	Combination model.Combination `json:"combination"`
	Score       int               `json:"score"`
	Breakdown   scoring.Breakdown `json:"breakdown"`
	Source      Source            `json:"source"`
	Favorite    bool              `json:"favorite"`
}

// Stats summarizes an engine for monitoring.
type Stats struct {
	Revision        string    `json:"revision"`
	BuiltAt         time.Time `json:"built_at"`
	Garments        int       `json:"garments"`
	Combinations    int       `json:"combinations"`
	Dropped         int       `json:"dropped"`
	CompatibleCache int       `json:"compatible_cache"`
	FilteredCache   int       `json:"filtered_cache"`
}

// Engine is the compatibility index for one catalog snapshot.
type Engine struct {
	catalog  *model.Catalog
	garments map[string]*model.Garment
	all      []ScoredCombination
	dropped  int

	scorer     *scoring.Scorer
	compatible *memo[[]*model.Garment]
	filtered   *memo[[]ScoredCombination]

	revision string
	builtAt  time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	logger logger.Logger
}

// New builds the index for catalog. Unresolvable references are logged and
// skipped; a nil catalog yields an empty index.
func New(ctx context.Context, catalog *model.Catalog, opts ...Option) *Engine {
	if catalog == nil {
		catalog = &model.Catalog{}
	}
	e := &Engine{
		catalog:    catalog,
		garments:   catalog.GarmentIndex(),
		scorer:     scoring.NewScorer(),
		compatible: newMemo[[]*model.Garment](cacheCompatible),
		filtered:   newMemo[[]ScoredCombination](cacheFiltered),
		revision:   uuid.NewString(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // outfit sampling is not security sensitive
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.build(ctx)
	e.builtAt = time.Now()

	e.logger.Info(ctx, "compatibility index built",
		logger.String("revision", e.revision),
		logger.Int("combinations", len(e.all)),
		logger.Int("garments", len(e.garments)),
		logger.Int("dropped", e.dropped),
	)
	return e
}

func (e *Engine) build(ctx context.Context) {
	e.all = make([]ScoredCombination, 0, len(e.catalog.Combinations))
	for i, cc := range e.catalog.Combinations {
		combo, ok := e.resolve(ctx, i, cc)
		if !ok {
			e.dropped++
			continue
		}
		b := e.score(combo)
		e.all = append(e.all, ScoredCombination{
			ID:          curatedID(i, cc),
			Combination: combo,
			Score:       b.Percentage(),
			Breakdown:   b,
			Source:      SourceCurated,
			Favorite:    cc.Favorite,
		})
	}
	sort.SliceStable(e.all, func(i, j int) bool {
		return e.all[i].Score > e.all[j].Score
	})
}

// resolve turns a curated entry into a combination. Unknown ids and repeated
// categories are dropped from the entry; an entry left empty is skipped.
func (e *Engine) resolve(ctx context.Context, pos int, cc model.CuratedCombination) (model.Combination, bool) {
	combo := model.Combination{Style: cc.Style}
	for _, id := range cc.ItemIDs {
		g, ok := e.garments[id]
		if !ok {
			e.dropReference(ctx, pos, id, reasonUnknownGarment)
			continue
		}
		if !g.Category.Valid() {
			e.dropReference(ctx, pos, id, reasonInvalidCategory)
			continue
		}
		if combo.Has(g.Category) {
			e.dropReference(ctx, pos, id, reasonDuplicateCategory)
			continue
		}
		combo = combo.With(g.Category, g)
	}
	if combo.IsEmpty() {
		metrics.RecordResolutionError(reasonEmptyCombination)
		e.logger.Warn(ctx, "skipping curated combination with no resolvable garments",
			logger.Int("position", pos),
			logger.String("id", cc.ID),
		)
		return combo, false
	}
	return combo, true
}

func (e *Engine) dropReference(ctx context.Context, pos int, id, reason string) {
	metrics.RecordResolutionError(reason)
	e.logger.Warn(ctx, "dropping garment reference",
		logger.Int("position", pos),
		logger.String("item_id", id),
		logger.String("reason", reason),
	)
}

// curatedID keeps ids stable across rebuilds of the same catalog.
func curatedID(pos int, cc model.CuratedCombination) string {
	if cc.ID != "" {
		return cc.ID
	}
	name := strconv.Itoa(pos) + "\x00" + strings.Join(cc.ItemIDs, "\x00")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func (e *Engine) score(c model.Combination) scoring.Breakdown {
	metrics.RecordScoring()
	return e.scorer.Score(c)
}

// Score scores an arbitrary combination with this engine's weights.
func (e *Engine) Score(c model.Combination) scoring.Breakdown {
	return e.score(c)
}

// Catalog returns the snapshot this engine was built from.
func (e *Engine) Catalog() *model.Catalog {
	return e.catalog
}

// Garment looks up a catalog garment by id.
func (e *Engine) Garment(id string) (*model.Garment, bool) {
	g, ok := e.garments[id]
	return g, ok
}

// Revision identifies this build.
func (e *Engine) Revision() string {
	return e.revision
}

// Size returns the number of indexed combinations.
func (e *Engine) Size() int {
	return len(e.all)
}

// Stats returns a summary of the index and its caches.
func (e *Engine) Stats() Stats {
	return Stats{
		Revision:        e.revision,
		BuiltAt:         e.builtAt,
		Garments:        len(e.garments),
		Combinations:    len(e.all),
		Dropped:         e.dropped,
		CompatibleCache: e.compatible.len(),
		FilteredCache:   e.filtered.len(),
	}
}

// All returns the full index sorted by score descending, ties in catalog order.
// The slice is shared; callers must not modify it.
func (e *Engine) All(_ context.Context) []ScoredCombination {
	metrics.RecordLookup("all")
	return e.all
}

// ForAnchor returns the indexed combinations whose cat slot holds g (by id).
func (e *Engine) ForAnchor(ctx context.Context, cat model.Category, g *model.Garment) []ScoredCombination {
	const op = "for_anchor"
	metrics.RecordLookup(op)
	if !cat.Valid() {
		e.rejectQuery(ctx, op, fmt.Errorf("%w: %d", ErrUnknownCategory, int(cat)))
		return []ScoredCombination{}
	}
	if g == nil || g.ID == "" {
		e.rejectQuery(ctx, op, fmt.Errorf("%w: anchor garment has no id", ErrMalformedPartial))
		return []ScoredCombination{}
	}

	out := []ScoredCombination{}
	for _, sc := range e.all {
		if slot := sc.Combination.Get(cat); slot != nil && slot.ID == g.ID {
			out = append(out, sc)
		}
	}
	return out
}

// CompatibleItems returns the distinct garments found in cat across indexed
// combinations consistent with partial, in first-seen index order. Every filled
// slot of partial must match; style is ignored.
func (e *Engine) CompatibleItems(ctx context.Context, cat model.Category, partial model.Combination) []*model.Garment {
	const op = "compatible_items"
	metrics.RecordLookup(op)
	if !cat.Valid() {
		e.rejectQuery(ctx, op, fmt.Errorf("%w: %d", ErrUnknownCategory, int(cat)))
		return []*model.Garment{}
	}
	if err := checkPartial(partial); err != nil {
		e.rejectQuery(ctx, op, err)
		return []*model.Garment{}
	}

	key := cat.Key() + "#" + partial.Key()
	return e.compatible.getOrCompute(key, func() []*model.Garment {
		seen := make(map[string]struct{})
		out := []*model.Garment{}
		for _, sc := range e.all {
			g := sc.Combination.Get(cat)
			if g == nil || !sc.Combination.Matches(partial) {
				continue
			}
			if _, dup := seen[g.ID]; dup {
				continue
			}
			seen[g.ID] = struct{}{}
			out = append(out, g)
		}
		return out
	})
}

// Filtered returns the indexed combinations consistent with partial.
func (e *Engine) Filtered(ctx context.Context, partial model.Combination) []ScoredCombination {
	const op = "filtered"
	metrics.RecordLookup(op)
	if err := checkPartial(partial); err != nil {
		e.rejectQuery(ctx, op, err)
		return []ScoredCombination{}
	}

	return e.filtered.getOrCompute(partial.Key(), func() []ScoredCombination {
		out := []ScoredCombination{}
		for _, sc := range e.all {
			if sc.Combination.Matches(partial) {
				out = append(out, sc)
			}
		}
		return out
	})
}

// ValidatePartial reports whether partial is acceptable: every present garment
// carries an id, name and category, and shorts are not paired with boots.
// Partials never need to be complete.
func (e *Engine) ValidatePartial(ctx context.Context, partial model.Combination) bool {
	const op = "validate_partial"
	metrics.RecordLookup(op)
	for _, cat := range partial.Filled() {
		if err := validation.Struct(partial.Get(cat)); err != nil {
			e.logger.Debug(ctx, "partial combination failed validation",
				logger.String("category", cat.Key()),
				logger.Error(err),
			)
			return false
		}
	}
	return !isShortsWithBoots(partial)
}

func isShortsWithBoots(c model.Combination) bool {
	pants, shoes := c.Get(model.CategoryPants), c.Get(model.CategoryShoes)
	if pants == nil || shoes == nil {
		return false
	}
	return strings.Contains(strings.ToLower(pants.Name), shortsMarker) &&
		strings.Contains(strings.ToLower(shoes.Name), bootsMarker)
}

// Random draws one indexed combination uniformly. It returns false when the
// index is empty.
func (e *Engine) Random(_ context.Context) (ScoredCombination, bool) {
	metrics.RecordLookup("random")
	return e.pick(e.all)
}

// Sample draws uniformly among the combinations consistent with partial.
func (e *Engine) Sample(ctx context.Context, partial model.Combination) (ScoredCombination, bool) {
	metrics.RecordLookup("sample")
	return e.pick(e.Filtered(ctx, partial))
}

// Complete derives a new combination from partial. Each empty category, in
// layering order, is filled with a random garment that shares a curated
// combination with each garment chosen so far, taken one at a time; the
// garments need not all appear in the same curated combination. Categories
// with no such garment stay empty. It returns false for a malformed partial or when nothing
// could be added.
func (e *Engine) Complete(ctx context.Context, partial model.Combination) (ScoredCombination, bool) {
	const op = "complete"
	metrics.RecordLookup(op)
	if err := checkPartial(partial); err != nil {
		e.rejectQuery(ctx, op, err)
		return ScoredCombination{}, false
	}

	current := partial
	added := 0
	for _, cat := range model.Categories() {
		if current.Has(cat) {
			continue
		}
		options := e.pairwiseCompatible(ctx, cat, current)
		if len(options) == 0 {
			continue
		}
		current = current.With(cat, options[e.intn(len(options))])
		added++
	}
	if added == 0 {
		return ScoredCombination{}, false
	}

	b := e.score(current)
	return ScoredCombination{
		ID:          uuid.NewString(),
		Combination: current,
		Score:       b.Percentage(),
		Breakdown:   b,
		Source:      SourceDerived,
	}, true
}

// pairwiseCompatible returns garments in cat that co-occur with each filled
// slot of current in at least one curated combination, in first-seen order.
func (e *Engine) pairwiseCompatible(ctx context.Context, cat model.Category, current model.Combination) []*model.Garment {
	filled := current.Filled()
	if len(filled) == 0 {
		return e.CompatibleItems(ctx, cat, model.Combination{})
	}

	var candidates []*model.Garment
	for i, other := range filled {
		single := model.Combination{}.With(other, current.Get(other))
		items := e.CompatibleItems(ctx, cat, single)
		if i == 0 {
			candidates = items
			continue
		}
		allowed := make(map[string]struct{}, len(items))
		for _, g := range items {
			allowed[g.ID] = struct{}{}
		}
		kept := make([]*model.Garment, 0, len(candidates))
		for _, g := range candidates {
			if _, ok := allowed[g.ID]; ok {
				kept = append(kept, g)
			}
		}
		candidates = kept
	}
	return candidates
}

func (e *Engine) pick(from []ScoredCombination) (ScoredCombination, bool) {
	if len(from) == 0 {
		return ScoredCombination{}, false
	}
	return from[e.intn(len(from))], true
}

func (e *Engine) intn(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}

// checkPartial rejects partials holding garments without an id, since matching
// is by id.
func checkPartial(partial model.Combination) error {
	for _, cat := range partial.Filled() {
		if partial.Get(cat).ID == "" {
			return fmt.Errorf("%w: %s garment has no id", ErrMalformedPartial, cat.Key())
		}
	}
	return nil
}

func (e *Engine) rejectQuery(ctx context.Context, op string, err error) {
	metrics.RecordMalformedQuery(op)
	e.logger.Warn(ctx, "rejecting lookup", logger.String("operation", op), logger.Error(err))
}
