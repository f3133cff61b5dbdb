package contact

import "leadfunnel/entity"

type PhoneStatus string

const (
	PhoneUnchecked PhoneStatus = ""
	PhonePending   PhoneStatus = "pending"
	PhoneValid     PhoneStatus = "valid"
	PhoneInvalid   PhoneStatus = "invalid"
	// PhoneUnknown means the checker could not answer; it never blocks.
	PhoneUnknown PhoneStatus = "unknown"
)

type Rules struct {
	EmailRequired   bool `json:"email_required"`
	ConsentRequired bool `json:"consent_required"`
}

// FieldErrors holds one inline message per invalid field.
type FieldErrors map[string]string

func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

func Validate(c entity.ContactInfo, rules Rules) FieldErrors {
	fe := make(FieldErrors)
	if err := ValidateName(c.Name); err != nil {
		fe["name"] = err.Error()
	}
	if err := ValidateEmail(c.Email, rules.EmailRequired); err != nil {
		fe["email"] = err.Error()
	}
	if err := ValidatePhone(c.Phone); err != nil {
		fe["phone"] = err.Error()
	}
	if rules.ConsentRequired && !c.Consent {
		fe["consent"] = ErrConsentMissing.Error()
	}
	return fe
}

// Form is the submit gate of the contact step.
type Form struct {
	Rules      Rules
	Contact    entity.ContactInfo
	Phone      PhoneStatus
	Submitting bool
	Submitted  bool
}

func (f Form) Errors() FieldErrors {
	fe := Validate(f.Contact, f.Rules)
	if f.Phone == PhoneInvalid {
		if _, ok := fe["phone"]; !ok {
			fe["phone"] = "Este número não possui WhatsApp"
		}
	}
	return fe
}

func (f Form) SubmitDisabled() bool {
	if f.Submitting || f.Submitted {
		return true
	}
	if f.Phone == PhonePending || f.Phone == PhoneInvalid {
		return true
	}
	return !Validate(f.Contact, f.Rules).Valid()
}
