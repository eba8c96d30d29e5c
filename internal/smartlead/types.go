package smartlead

// Lead is one contact in Smartlead's lead list payload.
type Lead struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Website     string `json:"website,omitempty"`
}

// addLeadsRequest wraps the batch for the campaign leads endpoint.
type addLeadsRequest struct {
	LeadList []Lead `json:"lead_list"`
}

// addLeadsResponse reports how the batch landed.
type addLeadsResponse struct {
	OK            bool `json:"ok"`
	UploadCount   int  `json:"upload_count"`
	AlreadyAdded  int  `json:"already_added_to_campaign"`
	InvalidCount  int  `json:"invalid_email_count"`
	DuplicateSkip int  `json:"duplicate_count"`
}
