package scraperapi

// submitRequest is the engine's job submission payload.
type submitRequest struct {
	Query      string `json:"query"`
	Location   string `json:"location,omitempty"`
	MaxResults int    `json:"max_results"`
}

// submitResponse carries the engine's job identifier.
type submitResponse struct {
	JobID string `json:"job_id"`
}

// jobStatusResponse is the engine's status report.
type jobStatusResponse struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	LeadsFound int    `json:"leads_found"`
	Error      string `json:"error,omitempty"`
}

// resultLead is one contact in the engine's results payload.
type resultLead struct {
	CompanyName        string `json:"company_name"`
	Website            string `json:"website"`
	CompanyLinkedInURL string `json:"company_linkedin_url"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
}

// resultsResponse is the engine's full results payload.
type resultsResponse struct {
	JobID string       `json:"job_id"`
	Leads []resultLead `json:"leads"`
}
