// Package leads exposes scraped contacts: listing, email-permutation
// candidates, verification, and the CSV export surface.
package leads
