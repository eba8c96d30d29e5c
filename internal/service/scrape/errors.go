package scrape

import "errors"

// Sentinel errors for the scrape service layer.
var (
	ErrNotFound    = errors.New("scrape job not found")
	ErrJobTerminal = errors.New("scrape job already finished")
	ErrInvalidJob  = errors.New("invalid scrape job request")
)
