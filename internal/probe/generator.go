package probe

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/okian/outfit/internal/adapters/catalog"
	"github.com/okian/outfit/internal/domain/model"
	"github.com/okian/outfit/pkg/logger"
)

var colors = []string{"Navy", "Charcoal", "White", "Olive", "Tan", "Black", "Burgundy", "Grey"}

var namesByCategory = map[model.Category][]string{
	model.CategoryJacket:     {"Blazer", "Overshirt", "Field Jacket", "Sport Coat"},
	model.CategoryShirt:      {"Oxford Shirt", "Poplin Shirt", "Linen Shirt", "Polo"},
	model.CategoryUndershirt: {"Crew Tee", "V-Neck Tee", "Tank"},
	model.CategoryPants:      {"Trousers", "Chinos", "Jeans", "Chino Shorts"},
	model.CategoryShoes:      {"Oxfords", "Loafers", "Sneakers", "Desert Boots"},
	model.CategoryBelt:       {"Leather Belt", "Braided Belt"},
	model.CategoryWatch:      {"Dress Watch", "Field Watch", "Diver"},
}

// Every generated combination fills these slots.
var requiredSlots = map[model.Category]bool{
	model.CategoryShirt: true,
	model.CategoryPants: true,
	model.CategoryShoes: true,
}

// GenerateCatalog builds a synthetic catalog. Equal configs give equal catalogs.
func GenerateCatalog(ctx context.Context, config *Config, stats *Stats) (*model.Catalog, error) {
	if config.Garments < 1 || config.Combinations < 0 {
		return nil, fmt.Errorf("%w: garments must be positive and combinations non-negative", ErrInvalidConfig)
	}

	logger.Get().Info(ctx, "generating catalog",
		logger.Int("garmentsPerCategory", config.Garments),
		logger.Int("combinations", config.Combinations))

	rng := rand.New(rand.NewSource(config.Seed)) //nolint:gosec // reproducible test data
	c := &model.Catalog{}

	ids := make(map[model.Category][]string)
	for _, cat := range model.Categories() {
		names := namesByCategory[cat]
		for i := 0; i < config.Garments; i++ {
			color := colors[rng.Intn(len(colors))]
			g := model.Garment{
				ID:       cat.Key() + "-" + strconv.Itoa(i),
				Name:     color + " " + names[rng.Intn(len(names))],
				Category: cat,
				Color:    color,
			}
			if rng.Intn(unratedOneIn) != 0 {
				g.Formality = model.Formality(minFormality + rng.Intn(maxFormality-minFormality+1))
			}
			c.Garments = append(c.Garments, g)
			ids[cat] = append(ids[cat], g.ID)
		}
	}

	for i := 0; i < config.Combinations; i++ {
		cc := model.CuratedCombination{ID: "combo-" + strconv.Itoa(i)}
		for _, cat := range model.Categories() {
			if !requiredSlots[cat] && rng.Intn(PercentageMultiplier) >= optionalSlotPercent {
				continue
			}
			pool := ids[cat]
			cc.ItemIDs = append(cc.ItemIDs, pool[rng.Intn(len(pool))])
		}
		if rng.Intn(tuckedOneIn) == 0 {
			cc.Style = model.StyleTucked
		}
		cc.Favorite = rng.Intn(favoriteOneIn) == 0
		c.Combinations = append(c.Combinations, cc)
	}

	if err := catalog.Validate(c); err != nil {
		return nil, fmt.Errorf("generated catalog rejected: %w", err)
	}

	stats.GarmentsGenerated = len(c.Garments)
	stats.CombinationsGenerated = len(c.Combinations)
	logger.Get().Info(ctx, "generated catalog successfully",
		logger.Int("garments", len(c.Garments)),
		logger.Int("combinations", len(c.Combinations)))

	return c, nil
}

// GenerateQueries draws compatibility queries from the curated combinations
// of c, so most of them have answers. Each query targets one category and
// fills one or two other slots of the same curated combination. Fewer than n
// queries come back when too few combinations fill two slots.
func GenerateQueries(c *model.Catalog, n int, seed int64) []Query {
	if c == nil || len(c.Combinations) == 0 || n < 1 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible test data
	index := c.GarmentIndex()
	queries := make([]Query, 0, n)

	for attempts := 0; len(queries) < n && attempts < n*maxQueryAttempts; attempts++ {
		cc := c.Combinations[rng.Intn(len(c.Combinations))]
		var full model.Combination
		for _, id := range cc.ItemIDs {
			if g, ok := index[id]; ok {
				full = full.With(g.Category, g)
			}
		}
		filled := full.Filled()
		if len(filled) < 2 {
			continue
		}

		rng.Shuffle(len(filled), func(i, j int) { filled[i], filled[j] = filled[j], filled[i] })
		q := Query{Category: filled[0]}
		slots := 1 + rng.Intn(maxPartialSlots)
		for _, cat := range filled[1:] {
			if slots == 0 {
				break
			}
			q.Partial = q.Partial.With(cat, full.Get(cat))
			slots--
		}
		queries = append(queries, q)
	}
	return queries
}
