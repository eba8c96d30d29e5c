package invites

import "errors"

// Sentinel errors for the invites service layer.
var (
	ErrNotFound        = errors.New("invite not found")
	ErrAlreadyRedeemed = errors.New("invite already redeemed")
	ErrRevoked         = errors.New("invite revoked")
	ErrExpired         = errors.New("invite expired")
)
