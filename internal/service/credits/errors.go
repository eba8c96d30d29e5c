package credits

import "errors"

// Sentinel errors for the credits service layer.
var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrAlreadyRefunded     = errors.New("charge already refunded")
)
