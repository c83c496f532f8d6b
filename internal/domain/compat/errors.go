package compat

import "errors"

// Sentinel error kinds, used in diagnostics.
var (
	ErrMalformedPartial = errors.New("malformed partial combination")
	ErrUnknownCategory  = errors.New("unknown category")
)
