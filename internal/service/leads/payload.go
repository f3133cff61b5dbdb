package leads

import (
	"leadfunnel/entity"
)

// BuildPayload assembles the wire body. Optional strings are trimmed and
// left out when empty.
func BuildPayload(contact entity.ContactInfo, q entity.Qualification, attribution entity.Attribution) entity.LeadPayload {
	c := contact.Trimmed()
	return entity.LeadPayload{
		Slug:        attribution.Slug(),
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Fields:      q.Fields(),
		Attribution: attribution,
	}
}
