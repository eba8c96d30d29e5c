// Package export turns lead snapshots into CSV text for download or for
// handoff to a campaign platform. It is a pure projection: filtering is
// stable, field extraction defaults absent values to "", and escaping is
// the minimal RFC-4180 form spreadsheets expect.
package export

import (
	"strings"

	"github.com/leadforge/leadforge/internal/domain"
)

// ValidityFilter selects which verification verdicts survive the export.
// Leads with no verdict at all are always excluded.
type ValidityFilter string

const (
	// FilterValid keeps only confirmed-deliverable addresses.
	FilterValid ValidityFilter = "valid"
	// FilterValidCatchAll keeps deliverable and accept-all-domain addresses.
	FilterValidCatchAll ValidityFilter = "valid_catchall"
	// FilterCatchAll keeps accept-all-domain addresses only.
	FilterCatchAll ValidityFilter = "catchall"
)

// Valid reports whether f is one of the known filter values.
func (f ValidityFilter) Valid() bool {
	switch f {
	case FilterValid, FilterValidCatchAll, FilterCatchAll:
		return true
	}
	return false
}

// ColumnSelection enables individual output columns. Column order in the
// output is fixed (company name, website, LinkedIn, email) regardless of
// how the flags were set.
type ColumnSelection struct {
	CompanyName    bool `json:"company_name"`
	CompanyWebsite bool `json:"company_website"`
	LinkedInURL    bool `json:"linkedin_url"`
	ContactEmail   bool `json:"contact_email"`
}

// None reports whether no column is enabled. A no-column export is valid
// and produces an empty table; blocking it is a UI affordance.
func (c ColumnSelection) None() bool {
	return !c.CompanyName && !c.CompanyWebsite && !c.LinkedInURL && !c.ContactEmail
}

// Table is the projected export: header labels and raw (unescaped) field
// values, both in final output order.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type column struct {
	header  string
	enabled func(ColumnSelection) bool
	value   func(*domain.Lead) string
}

// Fixed column order; only enabled entries appear in the output.
var columns = []column{
	{"Company Name", func(c ColumnSelection) bool { return c.CompanyName }, func(l *domain.Lead) string { return l.CompanyName }},
	{"Company Website", func(c ColumnSelection) bool { return c.CompanyWebsite }, func(l *domain.Lead) string { return l.Website }},
	{"LinkedIn URL", func(c ColumnSelection) bool { return c.LinkedInURL }, func(l *domain.Lead) string { return l.CompanyLinkedInURL }},
	{"Contact Email", func(c ColumnSelection) bool { return c.ContactEmail }, func(l *domain.Lead) string { return l.Email }},
}

// FilterAndProject applies the validity filter (stable, input order
// preserved) and projects the enabled columns. It never errors: an unknown
// filter or empty selection simply produces an empty table.
func FilterAndProject(leads []domain.Lead, filter ValidityFilter, cols ColumnSelection) Table {
	var active []column
	for _, c := range columns {
		if c.enabled(cols) {
			active = append(active, c)
		}
	}

	t := Table{Headers: make([]string, len(active))}
	for i, c := range active {
		t.Headers[i] = c.header
	}
	if len(active) == 0 {
		return t
	}

	for i := range leads {
		if !Matches(leads[i].EmailStatus, filter) {
			continue
		}
		row := make([]string, len(active))
		for j, c := range active {
			row[j] = c.value(&leads[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Matches reports whether a verification verdict passes the filter.
// An empty verdict (never verified) passes no filter.
func Matches(status domain.EmailStatus, filter ValidityFilter) bool {
	if status == "" {
		return false
	}
	switch filter {
	case FilterValid:
		return status == domain.EmailValid
	case FilterValidCatchAll:
		return status == domain.EmailValid || status == domain.EmailCatchAll
	case FilterCatchAll:
		return status == domain.EmailCatchAll
	}
	return false
}

// CSV serializes the table: each row's fields are escaped and joined with
// commas, and the header row plus data rows are joined with "\n". No
// trailing newline is added.
func (t Table) CSV() string {
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, joinFields(t.Headers))
	for _, row := range t.Rows {
		lines = append(lines, joinFields(row))
	}
	return strings.Join(lines, "\n")
}

func joinFields(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	return strings.Join(escaped, ",")
}

// EscapeField applies minimal RFC-4180 quoting: empty fields stay empty,
// fields containing a comma, double quote, or newline are wrapped in
// quotes with internal quotes doubled, everything else passes through
// unchanged. Downstream spreadsheet importers are strict about this exact
// form.
func EscapeField(field string) string {
	if field == "" {
		return ""
	}
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}
