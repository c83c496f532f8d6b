package catalog

import "errors"

// Sentinel kinds for catalog loading errors.
var (
	ErrDecode         = errors.New("decode catalog")
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrDuplicateID    = errors.New("duplicate id")
)
