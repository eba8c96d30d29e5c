package instantly

// Lead is one contact in Instantly's lead payload.
type Lead struct {
	CampaignID  string `json:"campaign"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Website     string `json:"website,omitempty"`
}

// createResponse is Instantly's answer to a lead creation call.
type createResponse struct {
	ID string `json:"id"`
}
