package plusvibe

// Lead is one contact in PlusVibe's lead payload.
type Lead struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Website     string `json:"website,omitempty"`
}

// addLeadsRequest targets a campaign inside a workspace.
type addLeadsRequest struct {
	CampaignID string `json:"camp_id"`
	Leads      []Lead `json:"leads"`
}

// addLeadsResponse reports accepted and skipped counts.
type addLeadsResponse struct {
	Status   string `json:"status"`
	Uploaded int    `json:"uploaded"`
	Skipped  int    `json:"skipped"`
}
