package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
)

func testCatalog(shirtFormality int) *model.Catalog {
	return &model.Catalog{
		Garments: []model.Garment{
			{ID: "s", Name: "Shirt", Category: model.CategoryShirt, Formality: model.Formality(shirtFormality)},
			{ID: "p", Name: "Pants", Category: model.CategoryPants, Formality: model.Formality(shirtFormality)},
		},
		Combinations: []model.CuratedCombination{{ID: "c", ItemIDs: []string{"s", "p"}}},
	}
}

func TestIndexStore_StartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore(ctx)

	e := store.Current()
	if e == nil {
		t.Fatal("expected an engine before any catalog is loaded")
	}
	if e.Size() != 0 {
		t.Errorf("expected empty index, got %d entries", e.Size())
	}
	if _, ok := e.Random(ctx); ok {
		t.Error("expected no random draw from an empty index")
	}
}

func TestIndexStore_Replace(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore(ctx)
	first := store.Current()

	cat := testCatalog(10)
	rebuilt, err := store.Replace(ctx, cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rebuilt {
		t.Fatal("expected a rebuild for a new catalog")
	}

	second := store.Current()
	if second == first {
		t.Fatal("expected a new engine after rebuild")
	}
	if second.Revision() == first.Revision() {
		t.Error("expected a new revision after rebuild")
	}
	if second.Size() != 1 {
		t.Errorf("expected 1 entry, got %d", second.Size())
	}
	if store.Catalog() != cat {
		t.Error("expected the store to report the new catalog")
	}

	// The old engine stays usable for readers still holding it.
	if first.Size() != 0 {
		t.Errorf("expected the previous engine to be unchanged, got %d entries", first.Size())
	}
}

func TestIndexStore_ReplaceSameCatalog(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore(ctx)
	cat := testCatalog(8)

	if _, err := store.Replace(ctx, cat); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := store.Current()

	rebuilt, err := store.Replace(ctx, cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rebuilt {
		t.Error("expected no rebuild for the current catalog")
	}
	if store.Current() != before {
		t.Error("expected the same engine to stay published")
	}
}

func TestIndexStore_ReplaceNil(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore(ctx)
	before := store.Current()

	_, err := store.Replace(ctx, nil)
	if !errors.Is(err, ErrNilCatalog) {
		t.Fatalf("expected ErrNilCatalog, got %v", err)
	}
	if store.Current() != before {
		t.Error("expected the published engine to be kept")
	}
}

func TestIndexStore_EngineOptions(t *testing.T) {
	ctx := context.Background()
	a := NewIndexStore(ctx, WithEngineOptions(compat.WithSeed(42)))
	b := NewIndexStore(ctx, WithEngineOptions(compat.WithSeed(42)))

	cat := &model.Catalog{
		Garments: []model.Garment{
			{ID: "1", Name: "One", Category: model.CategoryShirt},
			{ID: "2", Name: "Two", Category: model.CategoryShirt},
			{ID: "3", Name: "Three", Category: model.CategoryShirt},
		},
		Combinations: []model.CuratedCombination{
			{ID: "a", ItemIDs: []string{"1"}},
			{ID: "b", ItemIDs: []string{"2"}},
			{ID: "c", ItemIDs: []string{"3"}},
		},
	}
	if _, err := a.Replace(ctx, cat); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.Replace(ctx, cat); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 10; i++ {
		x, _ := a.Current().Random(ctx)
		y, _ := b.Current().Random(ctx)
		if x.ID != y.ID {
			t.Fatalf("draw %d: expected seeded engines to agree, got %s and %s", i, x.ID, y.ID)
		}
	}
}

func TestIndexStore_ConcurrentReadersDuringRebuild(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore(ctx)

	const (
		readers  = 8
		rebuilds = 50
	)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				e := store.Current()
				// Every published index is complete: empty or exactly one entry.
				all := e.All(ctx)
				if n := len(all); n > 1 {
					t.Errorf("observed torn index with %d entries", n)
					return
				}
				if len(all) == 1 && all[0].Combination.Len() != 2 {
					t.Errorf("observed partially resolved entry")
					return
				}
				e.Filtered(ctx, model.Combination{Shirt: &model.Garment{ID: "s"}})
			}
		}()
	}

	for i := 0; i < rebuilds; i++ {
		if _, err := store.Replace(ctx, testCatalog(1+i%10)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	close(stop)
	wg.Wait()

	if got := store.Current().Size(); got != 1 {
		t.Errorf("expected final index to hold 1 entry, got %d", got)
	}
}

func TestIndexStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(f int) {
			defer wg.Done()
			if _, err := store.Replace(ctx, testCatalog(f)); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(1 + i)
	}
	wg.Wait()

	cat := store.Catalog()
	e := store.Current()
	if e.Catalog() != cat {
		t.Error("expected the published engine to match the recorded catalog")
	}
}
