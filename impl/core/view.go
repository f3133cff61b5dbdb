package core

import (
	"leadfunnel/entity"
	"leadfunnel/funnel/contact"
	"leadfunnel/funnel/flow"
)

// thanks is shown instead of the questionnaire once a lead was sent.
var thanks = flow.Message{
	Title: "Obrigado pelo interesse",
	Body:  "Recebemos seus dados. Em breve um especialista vai falar com você pelo WhatsApp.",
}

type OptionView struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type StepView struct {
	ID       flow.StepID  `json:"id"`
	Prompt   string       `json:"prompt"`
	Options  []OptionView `json:"options"`
	Selected string       `json:"selected,omitempty"`
}

// FormView is the contact step gate.
type FormView struct {
	Contact         entity.ContactInfo  `json:"contact"`
	Errors          contact.FieldErrors `json:"errors,omitempty"`
	PhoneStatus     contact.PhoneStatus `json:"phone_status,omitempty"`
	EmailRequired   bool                `json:"email_required"`
	ConsentRequired bool                `json:"consent_required"`
	Submitting      bool                `json:"submitting"`
	SubmitDisabled  bool                `json:"submit_disabled"`
}

// View is everything the page needs to draw the dialog.
type View struct {
	SessionID        string         `json:"session_id"`
	VariantID        flow.VariantID `json:"variant_id"`
	Title            string         `json:"title"`
	AlreadySubmitted bool           `json:"already_submitted"`
	Step             *StepView      `json:"step,omitempty"`
	Hint             string         `json:"hint,omitempty"`
	Terminal         flow.Terminal  `json:"terminal"`
	Outcome          *flow.Message  `json:"outcome,omitempty"`
	Reasons          []string       `json:"reasons,omitempty"`
	Form             *FormView      `json:"form,omitempty"`
	CanGoBack        bool           `json:"can_go_back"`
}

// SubmitResult tells the page where to send the visitor.
type SubmitResult struct {
	View        View   `json:"view"`
	Destination string `json:"destination,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

func (c *Core) view(s *flow.State, v *flow.Variant) View {
	out := View{
		SessionID: s.SessionID,
		VariantID: s.VariantID,
		Title:     v.Title,
		Terminal:  s.Terminal,
		Reasons:   s.Reasons,
		Hint:      s.Hint,
	}

	if s.IsSubmitted {
		out.AlreadySubmitted = true
		msg := thanks
		out.Outcome = &msg
		out.Hint = ""
		return out
	}

	if s.Finished() {
		msg := v.Outcome(s.Terminal, s.DisqualifyReason)
		out.Outcome = &msg
		out.CanGoBack = true
		if s.Terminal.Submittable() {
			out.Form = c.formView(s, v)
		}
		return out
	}

	if step, ok := v.Step(s.CurrentStep); ok {
		sv := &StepView{
			ID:       step.ID,
			Prompt:   step.Prompt,
			Options:  make([]OptionView, 0, len(step.Options)),
			Selected: s.Answers[step.ID],
		}
		for _, o := range step.Options {
			sv.Options = append(sv.Options, OptionView{Label: o.Label, Value: o.Value})
		}
		out.Step = sv
		out.CanGoBack = step.Back != ""
	}
	return out
}

func (c *Core) formView(s *flow.State, v *flow.Variant) *FormView {
	form := contact.Form{
		Rules:      rules(v),
		Contact:    s.Contact,
		Phone:      c.phoneStatus(s),
		Submitting: c.isBusy(c.submitting, s.SessionID),
		Submitted:  s.IsSubmitted,
	}
	errs := form.Errors()
	if errs.Valid() {
		errs = nil
	}
	return &FormView{
		Contact:         s.Contact,
		Errors:          errs,
		PhoneStatus:     form.Phone,
		EmailRequired:   form.Rules.EmailRequired,
		ConsentRequired: form.Rules.ConsentRequired,
		Submitting:      form.Submitting,
		SubmitDisabled:  form.SubmitDisabled(),
	}
}

func rules(v *flow.Variant) contact.Rules {
	return contact.Rules{EmailRequired: v.EmailRequired, ConsentRequired: v.ConsentRequired}
}
