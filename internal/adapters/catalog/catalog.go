// Package catalog reads catalog snapshots from JSON and checks them before
// they are handed to the index.
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/okian/outfit/internal/domain/model"
	"github.com/okian/outfit/internal/validation"
)

// LoadFile reads and validates the catalog at path.
func LoadFile(_ context.Context, path string) (*model.Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode reads one JSON catalog from r and validates it.
func Decode(r io.Reader) (*model.Catalog, error) {
	var c model.Catalog
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every garment is identifiable and in range, that ids
// are unique, and that every curated combination references at least one id.
// Unknown references inside combinations are left to the index build, which
// drops them with a diagnostic.
func Validate(c *model.Catalog) error {
	if c == nil {
		return fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}

	garmentIDs := make(map[string]struct{}, len(c.Garments))
	for i := range c.Garments {
		g := &c.Garments[i]
		if err := validation.Struct(g); err != nil {
			return fmt.Errorf("%w: garment %d: %w", ErrInvalidCatalog, i, err)
		}
		if !g.Category.Valid() {
			return fmt.Errorf("%w: garment %q: %w", ErrInvalidCatalog, g.ID, model.ErrUnknownCategory)
		}
		if g.Formality != nil {
			if _, ok := g.ScorableFormality(); !ok {
				return fmt.Errorf("%w: garment %q: formality %d outside [%d, %d]",
					ErrInvalidCatalog, g.ID, *g.Formality, model.MinFormality, model.MaxFormality)
			}
		}
		if _, dup := garmentIDs[g.ID]; dup {
			return fmt.Errorf("%w: %w: garment %q", ErrInvalidCatalog, ErrDuplicateID, g.ID)
		}
		garmentIDs[g.ID] = struct{}{}
	}

	comboIDs := make(map[string]struct{}, len(c.Combinations))
	for i, cc := range c.Combinations {
		if len(cc.ItemIDs) == 0 {
			return fmt.Errorf("%w: combination %d has no item ids", ErrInvalidCatalog, i)
		}
		switch cc.Style {
		case model.StyleNone, model.StyleTucked, model.StyleUntucked:
		default:
			return fmt.Errorf("%w: combination %d: unknown style %q", ErrInvalidCatalog, i, cc.Style)
		}
		if cc.ID == "" {
			continue
		}
		if _, dup := comboIDs[cc.ID]; dup {
			return fmt.Errorf("%w: %w: combination %q", ErrInvalidCatalog, ErrDuplicateID, cc.ID)
		}
		comboIDs[cc.ID] = struct{}{}
	}
	return nil
}
