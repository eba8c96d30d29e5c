// Package users implements the signup approval workflow.
//
// Every account starts pending, whether it arrived through an invite or
// straight from OAuth. Admins approve, reject, or suspend accounts;
// approval grants the configured signup credits through the ledger.
package users
