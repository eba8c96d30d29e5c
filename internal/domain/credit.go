package domain

import "time"

// CreditReason classifies ledger entries so the billing view can group them.
type CreditReason string

const (
	CreditGrantSignup  CreditReason = "grant_signup"
	CreditGrantInvite  CreditReason = "grant_invite"
	CreditGrantManual  CreditReason = "grant_manual"
	CreditChargeScrape CreditReason = "charge_scrape"
	CreditChargeExport CreditReason = "charge_export"
	CreditRefund       CreditReason = "refund"
)

// CreditEntry is one row in the append-only credit ledger. Delta is
// positive for grants/refunds and negative for charges; a user's balance
// is the sum of their deltas. Ref ties charges and refunds to the
// originating object (scrape job ID, export ID).
type CreditEntry struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Delta     int64        `json:"delta"`
	Reason    CreditReason `json:"reason"`
	Ref       string       `json:"ref,omitempty"`
	Note      string       `json:"note,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
