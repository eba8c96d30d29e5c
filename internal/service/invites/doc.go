// Package invites manages single-use signup codes.
//
// An admin creates an invite for an email address with an attached credit
// amount and an expiry. The prospect receives the code by mail; redeeming
// it provisions a pending user account and grants the attached credits.
package invites
