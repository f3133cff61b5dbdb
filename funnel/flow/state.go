package flow

import (
	"time"

	"leadfunnel/entity"

	"github.com/google/uuid"
)

// State is one dialog instance. It is never shared between variants or
// between re-opens of the dialog.
type State struct {
	SessionID        string             `json:"session_id" bson:"session_id"`
	VisitorID        string             `json:"-" bson:"visitor_id"`
	VariantID        VariantID          `json:"variant_id" bson:"variant_id"`
	CurrentStep      StepID             `json:"current_step" bson:"current_step"`
	Answers          Answers            `json:"answers" bson:"answers"`
	Terminal         Terminal           `json:"terminal" bson:"terminal"`
	DisqualifyReason string             `json:"disqualify_reason,omitempty" bson:"disqualify_reason"`
	Reasons          []string           `json:"reasons,omitempty" bson:"reasons"`
	Hint             string             `json:"hint,omitempty" bson:"hint"`
	Contact          entity.ContactInfo `json:"contact" bson:"contact"`
	PhoneCheck       string             `json:"phone_check,omitempty" bson:"phone_check"`
	IsSubmitted      bool               `json:"is_submitted" bson:"is_submitted"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// NewState creates a state positioned on the variant entry step.
func NewState(visitorID string, variantID VariantID, entry StepID) *State {
	now := time.Now()
	return &State{
		SessionID:   uuid.NewString(),
		VisitorID:   visitorID,
		VariantID:   variantID,
		CurrentStep: entry,
		Answers:     make(Answers),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewSubmittedState is the thank-you view shown when the visitor already
// sent a lead. It has no questionnaire position.
func NewSubmittedState(visitorID string, variantID VariantID) *State {
	s := NewState(visitorID, variantID, "")
	s.IsSubmitted = true
	return s
}

func (s *State) Finished() bool {
	return s.Terminal != TerminalNone
}

func (s *State) record(step StepID, value string) {
	if s.Answers == nil {
		s.Answers = make(Answers)
	}
	s.Answers[step] = value
}

func (s *State) clearOutcome() {
	s.Terminal = TerminalNone
	s.DisqualifyReason = ""
	s.Reasons = nil
}

// Clone returns a copy safe to hand out while the original keeps changing.
func (s *State) Clone() *State {
	c := *s
	c.Answers = make(Answers, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	if s.Reasons != nil {
		c.Reasons = append([]string(nil), s.Reasons...)
	}
	return &c
}
