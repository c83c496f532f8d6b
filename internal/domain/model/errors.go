package model

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownGarment  = errors.New("unknown garment")
)
