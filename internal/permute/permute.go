// Package permute generates candidate email addresses from a contact's
// name parts and a company domain. The candidate order is part of the
// contract: the dashboard displays and selects candidates by position, and
// the verification worker probes them in order.
package permute

import (
	"errors"
	"strings"
)

// ErrIndexOutOfRange is returned by the positional candidate edits when
// the index does not refer to an existing candidate. Indices come from
// rendering the same slice, so hitting this is a programming error in the
// caller, not a recoverable condition.
var ErrIndexOutOfRange = errors.New("permute: candidate index out of range")

// NameParts holds the raw name fields for one contact. MiddleName is
// optional; the extra middle-initial patterns are only emitted when it
// normalizes to something non-empty.
type NameParts struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MiddleName string `json:"middle_name,omitempty"`
}

// Candidate pairs a generated address with the pattern that produced it.
// Pattern placeholders: {fn} first name, {ln} last name, {fi}/{li}/{mi}
// first/last/middle initial, {mn} middle name.
type Candidate struct {
	Email   string `json:"email"`
	Pattern string `json:"pattern"`
}

// NormalizePart lowercases a name part and strips every character outside
// [a-z0-9]. Accents, hyphens, apostrophes, and whitespace all drop out, so
// "O'Brien" becomes "obrien".
func NormalizePart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDomain reduces a free-text website string to a bare domain:
// lowercase, scheme and leading "www." stripped, truncated at the first
// path segment, one trailing dot removed. Returns "" when nothing usable
// remains.
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.Index(d, "/"); i >= 0 {
		d = d[:i]
	}
	d = strings.TrimSuffix(d, ".")
	return d
}

// Generate returns the ordered, deduplicated candidate list for the given
// name and domain. Degenerate input (empty normalized first name, last
// name, or domain) yields an empty list, never an error; callers depend
// on silently getting zero suggestions.
//
// Dedup is first-writer-wins by email: a later pattern that collides with
// an earlier one is dropped so each unique address keeps exactly one
// pattern label.
func Generate(name NameParts, domainInput string) []Candidate {
	domain := NormalizeDomain(domainInput)
	fn := NormalizePart(name.FirstName)
	ln := NormalizePart(name.LastName)
	if domain == "" || fn == "" || ln == "" {
		return nil
	}
	fi := fn[:1]
	li := ln[:1]

	steps := []struct{ pattern, local string }{
		{"{fn}", fn},
		{"{ln}", ln},
		{"{fn}{ln}", fn + ln},
		{"{fn}.{ln}", fn + "." + ln},
		{"{fi}{ln}", fi + ln},
		{"{fi}.{ln}", fi + "." + ln},
		{"{fn}{li}", fn + li},
		{"{fn}.{li}", fn + "." + li},
		{"{fi}{li}", fi + li},
		{"{fi}.{li}", fi + "." + li},
		{"{ln}{fn}", ln + fn},
		{"{ln}.{fn}", ln + "." + fn},
		{"{ln}{fi}", ln + fi},
		{"{ln}.{fi}", ln + "." + fi},
		{"{li}{fn}", li + fn},
		{"{li}.{fn}", li + "." + fn},
		{"{li}{fi}", li + fi},
		{"{li}.{fi}", li + "." + fi},
	}

	if mn := NormalizePart(name.MiddleName); mn != "" {
		mi := mn[:1]
		steps = append(steps,
			struct{ pattern, local string }{"{fi}{mi}{ln}", fi + mi + ln},
			struct{ pattern, local string }{"{fi}{mi}.{ln}", fi + mi + "." + ln},
			struct{ pattern, local string }{"{fn}{mi}{ln}", fn + mi + ln},
			struct{ pattern, local string }{"{fn}.{mi}.{ln}", fn + "." + mi + "." + ln},
		)
	}

	seen := make(map[string]bool, len(steps))
	out := make([]Candidate, 0, len(steps))
	for _, s := range steps {
		email := s.local + "@" + domain
		if seen[email] {
			continue
		}
		seen[email] = true
		out = append(out, Candidate{Email: email, Pattern: s.pattern})
	}
	return out
}

// AddCustom appends a placeholder candidate ("custom@<domain>") for the
// caller to hand-edit afterwards. The input slice is not mutated.
func AddCustom(cands []Candidate, domainInput string) []Candidate {
	domain := NormalizeDomain(domainInput)
	out := make([]Candidate, len(cands), len(cands)+1)
	copy(out, cands)
	return append(out, Candidate{Email: "custom@" + domain, Pattern: "custom"})
}

// Remove deletes the candidate at index i, preserving order.
func Remove(cands []Candidate, i int) ([]Candidate, error) {
	if i < 0 || i >= len(cands) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]Candidate, 0, len(cands)-1)
	out = append(out, cands[:i]...)
	out = append(out, cands[i+1:]...)
	return out, nil
}

// UpdateEmail replaces the email of the candidate at index i, keeping its
// pattern label.
func UpdateEmail(cands []Candidate, i int, email string) ([]Candidate, error) {
	if i < 0 || i >= len(cands) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]Candidate, len(cands))
	copy(out, cands)
	out[i].Email = email
	return out, nil
}
