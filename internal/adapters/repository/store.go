// Package repository holds the current compatibility index and swaps it
// atomically when the catalog changes.
package repository

import (
	"context"

	"github.com/okian/outfit/internal/domain/compat"
	"github.com/okian/outfit/internal/domain/model"
)

// Store provides the index readers query and the single writer that rebuilds it.
type Store interface {
	// Current returns the fully built index. It never blocks and never returns nil.
	Current() *compat.Engine

	// Replace rebuilds the index for catalog and publishes it.
	// Returns true if a rebuild happened, false when catalog is already current.
	Replace(ctx context.Context, catalog *model.Catalog) (bool, error)
}
