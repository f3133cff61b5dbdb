package entity

import "strings"

// ContactInfo is collected only after the questionnaire reaches a
// submittable outcome.
type ContactInfo struct {
	Name    string `json:"name" bson:"name" validate:"omitempty,max=120"`
	Email   string `json:"email,omitempty" bson:"email" validate:"omitempty,max=160"`
	Phone   string `json:"phone" bson:"phone" validate:"omitempty,max=32"`
	Consent bool   `json:"consent,omitempty" bson:"consent"`
}

func (c ContactInfo) Trimmed() ContactInfo {
	return ContactInfo{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Consent: c.Consent,
	}
}
