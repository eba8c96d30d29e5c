// Package credits implements the append-only credit ledger.
//
// Balances are never stored: a user's balance is the sum of their ledger
// deltas, and overdraft protection is enforced inside the repository's
// charge transaction so concurrent charges cannot race past zero.
// Repository implementations live in repository/postgres/.
package credits
