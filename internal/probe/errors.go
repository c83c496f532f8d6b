package probe

import "errors"

// Error constants.
var (
	ErrInvalidConfig    = errors.New("invalid probe config")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMismatch         = errors.New("service disagrees with local index")
)
