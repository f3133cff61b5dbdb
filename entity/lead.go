package entity

// LeadPayload is the body posted to the leads endpoint.
type LeadPayload struct {
	Slug   string         `json:"slug"`
	Name   string         `json:"name,omitempty"`
	Email  string         `json:"email,omitempty"`
	Phone  string         `json:"phone,omitempty"`
	Fields map[string]any `json:"fields"`
	Attribution
}

// LeadResponse is what the endpoint answers on success.
type LeadResponse struct {
	RedirectURL string `json:"redirect_url,omitempty"`
}
