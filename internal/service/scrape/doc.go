// Package scrape manages lead-scraping jobs on the external engine.
//
// Creating a job charges the estimated credit cost up front. The worker's
// poller calls ReconcileActive on a cadence: it queries the engine for
// every non-terminal job, persists status transitions, imports leads on
// completion, and refunds the unused part of the upfront charge.
package scrape
