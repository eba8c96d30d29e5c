package logger

import "testing"

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jane.doe@acme.com", "ja***@acme.com"},
		{"ab@acme.com", "***@acme.com"},
		{"a@acme.com", "***@acme.com"},
		{"not-an-email", "***@***"},
		{"@acme.com", "***@***"},
		{"jane@", "***@***"},
	}
	for _, tt := range tests {
		if got := RedactEmail(tt.in); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactValueByKey(t *testing.T) {
	got := redactValue("lead_email", "jane.doe@acme.com")
	if got != "ja***@acme.com" {
		t.Errorf("redactValue = %q", got)
	}
	// Embedded addresses in generic fields are still masked.
	got = redactValue("detail", "sent to jane.doe@acme.com ok")
	if got != "sent to ja***@acme.com ok" {
		t.Errorf("redactValue embedded = %q", got)
	}
}
