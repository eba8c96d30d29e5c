package domain

import "time"

// EmailStatus is the deliverability verdict from the verification
// provider. The empty string means the address was never verified; such
// leads are excluded from every export filter.
type EmailStatus string

const (
	EmailValid    EmailStatus = "valid"
	EmailCatchAll EmailStatus = "catch-all"
	EmailInvalid  EmailStatus = "invalid"
)

// Lead is one scraped contact. Field values come straight from the
// scraper engine and enrichment; any of the company/contact fields may be
// empty when the source page didn't expose them.
type Lead struct {
	ID                 string      `json:"id"`
	JobID              string      `json:"job_id"`
	UserID             string      `json:"user_id"`
	CompanyName        string      `json:"company_name,omitempty"`
	Website            string      `json:"website,omitempty"`
	CompanyLinkedInURL string      `json:"company_linkedin_url,omitempty"`
	FirstName          string      `json:"first_name,omitempty"`
	LastName           string      `json:"last_name,omitempty"`
	Email              string      `json:"email,omitempty"`
	EmailStatus        EmailStatus `json:"email_status,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
}
