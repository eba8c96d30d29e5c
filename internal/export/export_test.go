package export

import (
	"encoding/csv"
	"reflect"
	"strings"
	"testing"

	"github.com/leadforge/leadforge/internal/domain"
)

func sampleLeads() []domain.Lead {
	return []domain.Lead{
		{CompanyName: "A", Website: "a.com", CompanyLinkedInURL: "linkedin.com/company/a", Email: "a@a.com", EmailStatus: domain.EmailValid},
		{CompanyName: "B", Website: "b.com", Email: "b@b.com", EmailStatus: domain.EmailCatchAll},
		{CompanyName: "C", Website: "c.com", Email: "c@c.com", EmailStatus: domain.EmailInvalid},
		{CompanyName: "D", Website: "d.com", Email: "d@d.com"}, // never verified
	}
}

func allColumns() ColumnSelection {
	return ColumnSelection{CompanyName: true, CompanyWebsite: true, LinkedInURL: true, ContactEmail: true}
}

func TestFilterValidCatchAll(t *testing.T) {
	got := FilterAndProject(sampleLeads(), FilterValidCatchAll, ColumnSelection{CompanyName: true})

	want := [][]string{{"A"}, {"B"}}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows = %v, want %v (invalid and unverified leads must be excluded, order preserved)", got.Rows, want)
	}
}

func TestFilterValidOnly(t *testing.T) {
	got := FilterAndProject(sampleLeads(), FilterValid, ColumnSelection{CompanyName: true})
	if len(got.Rows) != 1 || got.Rows[0][0] != "A" {
		t.Errorf("rows = %v, want only A", got.Rows)
	}
}

func TestFilterCatchAllOnly(t *testing.T) {
	got := FilterAndProject(sampleLeads(), FilterCatchAll, ColumnSelection{CompanyName: true})
	if len(got.Rows) != 1 || got.Rows[0][0] != "B" {
		t.Errorf("rows = %v, want only B", got.Rows)
	}
}

func TestHeaderOrderFixed(t *testing.T) {
	// Header order must not depend on which flags are set, only on the
	// fixed column order.
	cases := []struct {
		cols ColumnSelection
		want []string
	}{
		{allColumns(), []string{"Company Name", "Company Website", "LinkedIn URL", "Contact Email"}},
		{ColumnSelection{ContactEmail: true, CompanyName: true}, []string{"Company Name", "Contact Email"}},
		{ColumnSelection{LinkedInURL: true}, []string{"LinkedIn URL"}},
		{ColumnSelection{}, []string{}},
	}
	for _, tt := range cases {
		got := FilterAndProject(sampleLeads(), FilterValid, tt.cols)
		if len(got.Headers) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got.Headers, tt.want) {
			t.Errorf("headers = %v, want %v", got.Headers, tt.want)
		}
	}
}

func TestZeroColumnsIsNotAnError(t *testing.T) {
	got := FilterAndProject(sampleLeads(), FilterValidCatchAll, ColumnSelection{})
	if len(got.Headers) != 0 {
		t.Errorf("headers = %v, want none", got.Headers)
	}
	if len(got.Rows) != 0 {
		t.Errorf("rows = %v, want none", got.Rows)
	}
	if body := got.CSV(); body != "" {
		t.Errorf("csv = %q, want empty", body)
	}
}

func TestAbsentFieldsBecomeEmpty(t *testing.T) {
	leads := []domain.Lead{{CompanyName: "OnlyName", EmailStatus: domain.EmailValid}}
	got := FilterAndProject(leads, FilterValid, allColumns())
	want := [][]string{{"OnlyName", "", "", ""}}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows = %v, want %v", got.Rows, want)
	}
}

func TestEscapeField(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Acme Inc", "Acme Inc"},
		{"comma", "Acme, Inc", `"Acme, Inc"`},
		{"quote", `say "hi"`, `"say ""hi"""`},
		{"newline", "line1\nline2", "\"line1\nline2\""},
		{"combined", "He said, \"hi\"\nBye", "\"He said, \"\"hi\"\"\nBye\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeField(tt.in); got != tt.want {
				t.Errorf("EscapeField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// A field that needed escaping must survive a round trip through a
// standard CSV parser byte-for-byte.
func TestEscapeRoundTrip(t *testing.T) {
	original := "He said, \"hi\"\nBye"
	leads := []domain.Lead{{CompanyName: original, EmailStatus: domain.EmailValid}}
	body := FilterAndProject(leads, FilterValid, ColumnSelection{CompanyName: true}).CSV()

	r := csv.NewReader(strings.NewReader(body))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1 row", len(records))
	}
	if records[1][0] != original {
		t.Errorf("round-trip = %q, want %q", records[1][0], original)
	}
}

func TestCSVBody(t *testing.T) {
	got := FilterAndProject(sampleLeads(), FilterValidCatchAll, ColumnSelection{CompanyName: true, ContactEmail: true}).CSV()
	want := "Company Name,Contact Email\nA,a@a.com\nB,b@b.com"
	if got != want {
		t.Errorf("CSV body = %q, want %q", got, want)
	}
}

func TestProjectionIdempotent(t *testing.T) {
	leads := sampleLeads()
	a := FilterAndProject(leads, FilterValidCatchAll, allColumns()).CSV()
	b := FilterAndProject(leads, FilterValidCatchAll, allColumns()).CSV()
	if a != b {
		t.Fatal("projection is not byte-identical across calls")
	}
}

func TestValidityFilterValid(t *testing.T) {
	for _, f := range []ValidityFilter{FilterValid, FilterValidCatchAll, FilterCatchAll} {
		if !f.Valid() {
			t.Errorf("%q should be valid", f)
		}
	}
	if ValidityFilter("bogus").Valid() {
		t.Error("bogus filter should not be valid")
	}
}
