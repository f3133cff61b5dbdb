package entity

import "time"

// LeadEvent is published once per accepted lead to operator channels.
type LeadEvent struct {
	Time        time.Time      `json:"time"`
	SessionID   string         `json:"session_id"`
	VariantID   string         `json:"variant_id"`
	Terminal    string         `json:"terminal"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
	UtmSource   string         `json:"utm_source,omitempty"`
	UtmCampaign string         `json:"utm_campaign,omitempty"`
	Destination string         `json:"destination,omitempty"`
}

// DialogOutcome is the anonymous summary of a finished questionnaire.
type DialogOutcome struct {
	VariantID string `json:"variant_id"`
	Terminal  string `json:"terminal"`
	Reason    string `json:"reason,omitempty"`
}
