package repository

import "errors"

// Sentinel kinds for index store errors.
var (
	ErrNilCatalog = errors.New("catalog is nil")
)
