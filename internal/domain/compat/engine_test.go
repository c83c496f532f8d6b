package compat_test

import (
	"context"
	"sync"
	"testing"

	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
	"github.com/okian/outfit/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func garment(id, name string, cat model.Category, formality int) model.Garment {
	return model.Garment{ID: id, Name: name, Category: cat, Formality: model.Formality(formality)}
}

func ids(gs []*model.Garment) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.ID)
	}
	return out
}

func comboIDs(scs []compat.ScoredCombination) []string {
	out := make([]string, 0, len(scs))
	for _, sc := range scs {
		out = append(out, sc.ID)
	}
	return out
}

// wardrobe indexes as c1 (100), c3 (69), c2 (61), c4 (44).
//
//	c1: shirt s1(10), pants p1(10)
//	c2: shirt s2(4),  pants p1(10), shoes h1(4)
//	c3: shirt s1(10), pants p2(4)
//	c4: shirt s2(4),  pants p2(4)
func wardrobe() *model.Catalog {
	return &model.Catalog{
		Garments: []model.Garment{
			garment("s1", "Oxford Shirt", model.CategoryShirt, 10),
			garment("s2", "Linen Shirt", model.CategoryShirt, 4),
			garment("p1", "Wool Trousers", model.CategoryPants, 10),
			garment("p2", "Chino Shorts", model.CategoryPants, 4),
			garment("h1", "Desert Boots", model.CategoryShoes, 4),
		},
		Combinations: []model.CuratedCombination{
			{ID: "c1", ItemIDs: []string{"s1", "p1"}, Favorite: true},
			{ID: "c2", ItemIDs: []string{"s2", "p1", "h1"}},
			{ID: "c3", ItemIDs: []string{"s1", "p2"}},
			{ID: "c4", ItemIDs: []string{"s2", "p2"}, Style: model.StyleTucked},
		},
	}
}

func TestEngine_EndToEnd(t *testing.T) {
	Convey("Given a catalog with one curated shirt and pants entry at formality 10", t, func() {
		ctx := context.Background()
		cat := &model.Catalog{
			Garments: []model.Garment{
				garment("S", "Shirt", model.CategoryShirt, 10),
				garment("P", "Pants", model.CategoryPants, 10),
			},
			Combinations: []model.CuratedCombination{{ItemIDs: []string{"S", "P"}}},
		}
		e := compat.New(ctx, cat)

		Convey("All returns one curated entry scoring 100", func() {
			all := e.All(ctx)
			So(len(all), ShouldEqual, 1)
			So(all[0].Score, ShouldEqual, 100)
			So(all[0].Breakdown.Total, ShouldEqual, 100)
			So(all[0].Source, ShouldEqual, compat.SourceCurated)
			So(all[0].ID, ShouldNotBeEmpty)
		})

		Convey("ForAnchor on the pants returns that same entry", func() {
			p, ok := e.Garment("P")
			So(ok, ShouldBeTrue)
			got := e.ForAnchor(ctx, model.CategoryPants, p)
			So(len(got), ShouldEqual, 1)
			So(got[0].ID, ShouldEqual, e.All(ctx)[0].ID)
		})

		Convey("CompatibleItems for shirts given the pants returns the shirt", func() {
			partial := model.Combination{Pants: &model.Garment{ID: "P"}}
			got := e.CompatibleItems(ctx, model.CategoryShirt, partial)
			So(ids(got), ShouldResemble, []string{"S"})
		})
	})
}

func TestEngine_Build(t *testing.T) {
	ctx := context.Background()

	Convey("Given a catalog with entries of different scores", t, func() {
		e := compat.New(ctx, wardrobe())
		all := e.All(ctx)

		Convey("Entries are sorted by score descending", func() {
			So(len(all), ShouldEqual, 4)
			for i := 1; i < len(all); i++ {
				So(all[i-1].Score, ShouldBeGreaterThanOrEqualTo, all[i].Score)
			}
			So(comboIDs(all), ShouldResemble, []string{"c1", "c3", "c2", "c4"})
			So(all[1].Score, ShouldEqual, 69)
			So(all[2].Score, ShouldEqual, 61)
			So(all[3].Score, ShouldEqual, 44)
		})

		Convey("Favorite and style are carried over", func() {
			So(all[0].Favorite, ShouldBeTrue)
			for _, sc := range all {
				if sc.ID == "c4" {
					So(sc.Combination.Style, ShouldEqual, model.StyleTucked)
				}
			}
		})

		Convey("Score always equals the breakdown total", func() {
			for _, sc := range all {
				So(sc.Score, ShouldEqual, sc.Breakdown.Total)
			}
		})

		Convey("Size and stats describe the index", func() {
			So(e.Size(), ShouldEqual, 4)
			st := e.Stats()
			So(st.Combinations, ShouldEqual, 4)
			So(st.Garments, ShouldEqual, 5)
			So(st.Dropped, ShouldEqual, 0)
			So(st.Revision, ShouldEqual, e.Revision())
		})
	})

	Convey("Given entries with equal scores", t, func() {
		cat := &model.Catalog{
			Garments: []model.Garment{
				garment("a", "A", model.CategoryShirt, 6),
				garment("b", "B", model.CategoryShirt, 6),
				garment("c", "C", model.CategoryShirt, 6),
				garment("d", "D", model.CategoryShirt, 9),
			},
			Combinations: []model.CuratedCombination{
				{ID: "first", ItemIDs: []string{"a"}},
				{ID: "second", ItemIDs: []string{"b"}},
				{ID: "top", ItemIDs: []string{"d"}},
				{ID: "third", ItemIDs: []string{"c"}},
			},
		}
		e := compat.New(ctx, cat)

		Convey("Ties keep catalog order", func() {
			So(comboIDs(e.All(ctx)), ShouldResemble, []string{"top", "first", "second", "third"})
		})
	})

	Convey("Given entries referencing unknown or conflicting garments", t, func() {
		cat := &model.Catalog{
			Garments: []model.Garment{
				garment("s", "Shirt", model.CategoryShirt, 7),
				garment("s2", "Other Shirt", model.CategoryShirt, 3),
				garment("p", "Pants", model.CategoryPants, 7),
				{ID: "x", Name: "Mystery", Category: model.Category(42)},
			},
			Combinations: []model.CuratedCombination{
				{ID: "partly-known", ItemIDs: []string{"s", "ghost", "p"}},
				{ID: "all-unknown", ItemIDs: []string{"ghost", "phantom"}},
				{ID: "double-shirt", ItemIDs: []string{"s", "s2"}},
				{ID: "bad-category", ItemIDs: []string{"x"}},
				{ID: "empty"},
			},
		}
		e := compat.New(ctx, cat)
		all := e.All(ctx)

		Convey("Unknown references are dropped and the rest of the entry survives", func() {
			So(comboIDs(all), ShouldContain, "partly-known")
			for _, sc := range all {
				if sc.ID == "partly-known" {
					So(sc.Combination.Len(), ShouldEqual, 2)
				}
			}
		})

		Convey("The first garment wins a duplicated category", func() {
			for _, sc := range all {
				if sc.ID == "double-shirt" {
					So(sc.Combination.Shirt.ID, ShouldEqual, "s")
					So(sc.Combination.Len(), ShouldEqual, 1)
				}
			}
		})

		Convey("Entries left empty are skipped", func() {
			So(comboIDs(all), ShouldNotContain, "all-unknown")
			So(comboIDs(all), ShouldNotContain, "bad-category")
			So(comboIDs(all), ShouldNotContain, "empty")
			So(e.Stats().Dropped, ShouldEqual, 3)
		})
	})

	Convey("Given curated entries without ids", t, func() {
		cat := &model.Catalog{
			Garments: []model.Garment{garment("s", "Shirt", model.CategoryShirt, 5)},
			Combinations: []model.CuratedCombination{
				{ItemIDs: []string{"s"}},
				{ItemIDs: []string{"s"}},
			},
		}

		Convey("Ids are derived per position and stable across rebuilds", func() {
			first := comboIDs(compat.New(ctx, cat).All(ctx))
			second := comboIDs(compat.New(ctx, cat).All(ctx))
			So(first, ShouldResemble, second)
			So(first[0], ShouldNotEqual, first[1])
		})
	})

	Convey("Given a custom scorer", t, func() {
		cat := &model.Catalog{
			Garments: []model.Garment{
				garment("j", "Jacket", model.CategoryJacket, 8),
				garment("s", "Shirt", model.CategoryShirt, 6),
			},
			Combinations: []model.CuratedCombination{{ItemIDs: []string{"j", "s"}}},
		}
		w := scoring.DefaultWeights()
		w.CoveredMid = 0.5
		e := compat.New(ctx, cat, compat.WithScorer(scoring.NewScorer(scoring.WithWeights(w))))

		Convey("The index uses its weights", func() {
			adj := e.All(ctx)[0].Breakdown.Adjustments
			So(adj[1].Weight, ShouldEqual, 0.5)
		})
	})
}

func TestEngine_EmptyCatalog(t *testing.T) {
	ctx := context.Background()

	for name, cat := range map[string]*model.Catalog{"nil": nil, "empty": {}} {
		Convey("Given a "+name+" catalog", t, func() {
			e := compat.New(ctx, cat)
			g := &model.Garment{ID: "g", Name: "G", Category: model.CategoryShirt}

			Convey("Every lookup degrades to an empty result", func() {
				So(e.All(ctx), ShouldBeEmpty)
				So(e.ForAnchor(ctx, model.CategoryShirt, g), ShouldBeEmpty)
				So(e.CompatibleItems(ctx, model.CategoryShirt, model.Combination{}), ShouldBeEmpty)
				So(e.Filtered(ctx, model.Combination{}), ShouldBeEmpty)
				_, ok := e.Random(ctx)
				So(ok, ShouldBeFalse)
				_, ok = e.Sample(ctx, model.Combination{})
				So(ok, ShouldBeFalse)
				_, ok = e.Complete(ctx, model.Combination{})
				So(ok, ShouldBeFalse)
				So(e.Size(), ShouldEqual, 0)
			})
		})
	}
}

func TestEngine_ForAnchor(t *testing.T) {
	ctx := context.Background()

	Convey("Given the wardrobe index", t, func() {
		e := compat.New(ctx, wardrobe())

		Convey("Anchoring on a garment matches by id, not by pointer", func() {
			got := e.ForAnchor(ctx, model.CategoryPants, &model.Garment{ID: "p1"})
			So(comboIDs(got), ShouldResemble, []string{"c1", "c2"})
		})

		Convey("A garment anchored in the wrong category matches nothing", func() {
			So(e.ForAnchor(ctx, model.CategoryShirt, &model.Garment{ID: "p1"}), ShouldBeEmpty)
		})

		Convey("Nil garments and invalid categories yield empty results", func() {
			So(e.ForAnchor(ctx, model.CategoryPants, nil), ShouldBeEmpty)
			So(e.ForAnchor(ctx, model.CategoryUnknown, &model.Garment{ID: "p1"}), ShouldBeEmpty)
			So(e.ForAnchor(ctx, model.CategoryPants, &model.Garment{}), ShouldBeEmpty)
		})
	})
}

func TestEngine_CompatibleItems(t *testing.T) {
	ctx := context.Background()

	Convey("Given the wardrobe index", t, func() {
		e := compat.New(ctx, wardrobe())

		Convey("An empty partial returns every garment in the category in index order", func() {
			got := e.CompatibleItems(ctx, model.CategoryShirt, model.Combination{})
			So(ids(got), ShouldResemble, []string{"s1", "s2"})
		})

		Convey("Filled slots constrain the candidates", func() {
			got := e.CompatibleItems(ctx, model.CategoryShirt, model.Combination{Pants: &model.Garment{ID: "p2"}})
			So(ids(got), ShouldResemble, []string{"s1", "s2"})

			got = e.CompatibleItems(ctx, model.CategoryShoes, model.Combination{Pants: &model.Garment{ID: "p1"}})
			So(ids(got), ShouldResemble, []string{"h1"})

			got = e.CompatibleItems(ctx, model.CategoryShoes, model.Combination{Shirt: &model.Garment{ID: "s1"}})
			So(got, ShouldBeEmpty)
		})

		Convey("Style never participates in matching", func() {
			plain := e.CompatibleItems(ctx, model.CategoryShirt, model.Combination{Pants: &model.Garment{ID: "p2"}})
			styled := e.CompatibleItems(ctx, model.CategoryShirt, model.Combination{
				Pants: &model.Garment{ID: "p2"},
				Style: model.StyleUntucked,
			})
			So(ids(styled), ShouldResemble, ids(plain))
		})

		Convey("Structurally equal partials built differently hit the same cache entry", func() {
			a := model.Combination{}.
				With(model.CategoryPants, &model.Garment{ID: "p1"}).
				With(model.CategoryShirt, &model.Garment{ID: "s2"})
			b := model.Combination{
				Shirt: &model.Garment{ID: "s2", Name: "different name"},
				Pants: &model.Garment{ID: "p1"},
			}
			first := e.CompatibleItems(ctx, model.CategoryShoes, a)
			before := e.Stats().CompatibleCache
			second := e.CompatibleItems(ctx, model.CategoryShoes, b)

			So(ids(second), ShouldResemble, ids(first))
			So(ids(first), ShouldResemble, []string{"h1"})
			So(e.Stats().CompatibleCache, ShouldEqual, before)
		})

		Convey("Malformed partials yield empty results", func() {
			So(e.CompatibleItems(ctx, model.CategoryShirt, model.Combination{Pants: &model.Garment{}}), ShouldBeEmpty)
			So(e.CompatibleItems(ctx, model.Category(99), model.Combination{}), ShouldBeEmpty)
		})
	})
}

func TestEngine_Filtered(t *testing.T) {
	ctx := context.Background()

	Convey("Given the wardrobe index", t, func() {
		e := compat.New(ctx, wardrobe())

		Convey("An empty partial matches the whole index", func() {
			So(comboIDs(e.Filtered(ctx, model.Combination{})), ShouldResemble, comboIDs(e.All(ctx)))
		})

		Convey("A partial keeps only consistent entries in index order", func() {
			got := e.Filtered(ctx, model.Combination{Shirt: &model.Garment{ID: "s1"}})
			So(comboIDs(got), ShouldResemble, []string{"c1", "c3"})
		})

		Convey("Repeated queries are served from the cache", func() {
			partial := model.Combination{Pants: &model.Garment{ID: "p2"}}
			first := e.Filtered(ctx, partial)
			second := e.Filtered(ctx, partial)
			So(comboIDs(second), ShouldResemble, comboIDs(first))
			So(e.Stats().FilteredCache, ShouldEqual, 1)
		})

		Convey("A partial with no match returns an empty non-nil slice", func() {
			got := e.Filtered(ctx, model.Combination{Watch: &model.Garment{ID: "w"}})
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}

func TestEngine_ValidatePartial(t *testing.T) {
	ctx := context.Background()
	e := compat.New(ctx, nil)

	shorts := &model.Garment{ID: "p", Name: "Chino SHORTS", Category: model.CategoryPants}
	trousers := &model.Garment{ID: "p", Name: "Wool Trousers", Category: model.CategoryPants}
	boots := &model.Garment{ID: "b", Name: "Chelsea Boots", Category: model.CategoryShoes}
	loafers := &model.Garment{ID: "b", Name: "Penny Loafers", Category: model.CategoryShoes}

	Convey("Shorts with boots are rejected regardless of case", t, func() {
		So(e.ValidatePartial(ctx, model.Combination{Pants: shorts, Shoes: boots}), ShouldBeFalse)
	})

	Convey("Every other pants and shoes pairing is accepted", t, func() {
		So(e.ValidatePartial(ctx, model.Combination{Pants: shorts, Shoes: loafers}), ShouldBeTrue)
		So(e.ValidatePartial(ctx, model.Combination{Pants: trousers, Shoes: boots}), ShouldBeTrue)
		So(e.ValidatePartial(ctx, model.Combination{Pants: trousers, Shoes: loafers}), ShouldBeTrue)
		So(e.ValidatePartial(ctx, model.Combination{Pants: shorts}), ShouldBeTrue)
		So(e.ValidatePartial(ctx, model.Combination{Shoes: boots}), ShouldBeTrue)
	})

	Convey("Partials need not be complete", t, func() {
		So(e.ValidatePartial(ctx, model.Combination{}), ShouldBeTrue)
	})

	Convey("Garments missing identity fields are rejected", t, func() {
		So(e.ValidatePartial(ctx, model.Combination{Shirt: &model.Garment{Name: "S", Category: model.CategoryShirt}}), ShouldBeFalse)
		So(e.ValidatePartial(ctx, model.Combination{Shirt: &model.Garment{ID: "s", Category: model.CategoryShirt}}), ShouldBeFalse)
		So(e.ValidatePartial(ctx, model.Combination{Shirt: &model.Garment{ID: "s", Name: "S"}}), ShouldBeFalse)
	})
}

func TestEngine_Random(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded engine", t, func() {
		e := compat.New(ctx, wardrobe(), compat.WithSeed(7))

		Convey("Random always returns an indexed entry", func() {
			known := comboIDs(e.All(ctx))
			for i := 0; i < 50; i++ {
				sc, ok := e.Random(ctx)
				So(ok, ShouldBeTrue)
				So(known, ShouldContain, sc.ID)
			}
		})

		Convey("Equal seeds give equal draws", func() {
			other := compat.New(ctx, wardrobe(), compat.WithSeed(7))
			for i := 0; i < 10; i++ {
				a, _ := e.Random(ctx)
				b, _ := other.Random(ctx)
				So(a.ID, ShouldEqual, b.ID)
			}
		})

		Convey("Sample draws only among consistent entries", func() {
			partial := model.Combination{Pants: &model.Garment{ID: "p1"}}
			for i := 0; i < 20; i++ {
				sc, ok := e.Sample(ctx, partial)
				So(ok, ShouldBeTrue)
				So([]string{"c1", "c2"}, ShouldContain, sc.ID)
			}
		})

		Convey("Random is safe for concurrent use", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						e.Random(ctx)
						e.CompatibleItems(ctx, model.CategoryShirt, model.Combination{})
					}
				}()
			}
			wg.Wait()
			So(e.Stats().CompatibleCache, ShouldEqual, 1)
		})
	})
}

func TestEngine_Complete(t *testing.T) {
	ctx := context.Background()

	Convey("Given the wardrobe index", t, func() {
		e := compat.New(ctx, wardrobe(), compat.WithSeed(3))

		Convey("Completing from an anchor only adds garments seen alongside it", func() {
			for i := 0; i < 20; i++ {
				sc, ok := e.Complete(ctx, model.Combination{Shirt: &model.Garment{ID: "s1"}})
				So(ok, ShouldBeTrue)
				So(sc.Source, ShouldEqual, compat.SourceDerived)
				So(sc.Combination.Shirt.ID, ShouldEqual, "s1")
				So([]string{"p1", "p2"}, ShouldContain, sc.Combination.Pants.ID)
				So(sc.Combination.Shoes, ShouldBeNil)
				So(sc.Score, ShouldEqual, sc.Breakdown.Total)
			}
		})

		Convey("Garments added later are compatible with every earlier choice", func() {
			sc, ok := e.Complete(ctx, model.Combination{Pants: &model.Garment{ID: "p1"}, Shirt: &model.Garment{ID: "s2"}})
			So(ok, ShouldBeTrue)
			So(sc.Combination.Shoes.ID, ShouldEqual, "h1")
		})

		Convey("Each added garment only needs to share a curated entry with each choice separately", func() {
			// s1 and h1 never appear together; p1 sits with s1 in c1 and with h1 in c2.
			partial := model.Combination{Shirt: &model.Garment{ID: "s1"}, Shoes: &model.Garment{ID: "h1"}}
			So(e.Filtered(ctx, partial), ShouldBeEmpty)

			sc, ok := e.Complete(ctx, partial)
			So(ok, ShouldBeTrue)
			So(sc.Combination.Pants.ID, ShouldEqual, "p1")
			So(sc.Combination.Jacket, ShouldBeNil)
		})

		Convey("Derived combinations get fresh ids", func() {
			a, _ := e.Complete(ctx, model.Combination{})
			b, _ := e.Complete(ctx, model.Combination{})
			So(a.ID, ShouldNotEqual, b.ID)
		})

		Convey("Nothing to add or a malformed partial returns false", func() {
			_, ok := e.Complete(ctx, model.Combination{Watch: &model.Garment{ID: "w"}})
			So(ok, ShouldBeFalse)
			_, ok = e.Complete(ctx, model.Combination{Shirt: &model.Garment{}})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestEngine_Score(t *testing.T) {
	Convey("Score matches the scoring package for default weights", t, func() {
		e := compat.New(context.Background(), nil)
		s := garment("s", "S", model.CategoryShirt, 8)
		c := model.Combination{Shirt: &s}
		So(e.Score(c), ShouldResemble, scoring.Score(c))
	})
}
