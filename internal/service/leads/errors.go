package leads

import "errors"

// Sentinel errors for the leads service layer.
var (
	ErrNotFound  = errors.New("lead not found")
	ErrBadFilter = errors.New("unknown export filter")
)
