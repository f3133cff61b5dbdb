package flow

import (
	"context"
	"errors"
)

// StepID is a unique identifier for a question within a variant.
type StepID string

// VariantID identifies a questionnaire, e.g. "lp04".
type VariantID string

// Answers maps a step to the value of the option chosen there.
// Re-answering a step overwrites the previous value.
type Answers map[StepID]string

// Terminal is the end state of a questionnaire.
type Terminal string

const (
	TerminalNone         Terminal = ""
	TerminalQualified    Terminal = "qualified"
	TerminalDisqualified Terminal = "disqualified"
	TerminalReview       Terminal = "review"
)

// Submittable outcomes lead to the contact form.
func (t Terminal) Submittable() bool {
	return t == TerminalQualified || t == TerminalReview
}

var (
	ErrVariantNotFound = errors.New("variant not found")
	ErrStateNotFound   = errors.New("dialog state not found")
	ErrOutOfTurn       = errors.New("step is not the current step")
	ErrUnknownOption   = errors.New("option is not defined on step")
	ErrTerminal        = errors.New("questionnaire already finished")
	ErrNoBackTarget    = errors.New("step has no back target")
)

// StateStorage handles persistence of dialog states.
type StateStorage interface {
	// Save persists a dialog state.
	Save(ctx context.Context, state *State) error

	// Load retrieves a dialog state, nil when it does not exist.
	Load(ctx context.Context, sessionID string) (*State, error)

	// Delete removes a dialog state.
	Delete(ctx context.Context, sessionID string) error
}
