package flow

import (
	"fmt"
	"time"
)

// Select applies the option chosen on the current step. Anything outside
// the enumerated transition table is rejected.
func (v *Variant) Select(s *State, step StepID, value string) error {
	if s.IsSubmitted || s.Finished() {
		return ErrTerminal
	}
	if step != s.CurrentStep {
		return fmt.Errorf("%w: got %s, current %s", ErrOutOfTurn, step, s.CurrentStep)
	}
	current, ok := v.Step(step)
	if !ok {
		return fmt.Errorf("step not found: %s", step)
	}
	opt, ok := current.Option(value)
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownOption, step, value)
	}

	s.record(step, value)
	s.Hint = opt.Hint
	s.UpdatedAt = time.Now()

	switch opt.Effect.Kind {
	case EffectAdvance:
		s.CurrentStep = opt.Effect.Next
	case EffectDisqualify:
		s.Terminal = TerminalDisqualified
		s.DisqualifyReason = opt.Effect.Reason
	case EffectComplete:
		verdict := Verdict{Terminal: TerminalQualified}
		if v.Eligibility != nil {
			verdict = v.Eligibility(s.Answers)
		}
		s.Terminal = verdict.Terminal
		s.DisqualifyReason = verdict.Reason
		s.Reasons = verdict.Reasons
	case EffectHold:
	}

	return nil
}

// Back moves to the declared back target of the current step. From a
// finished questionnaire it reopens the step that decided the outcome.
// Answers are kept either way.
func (v *Variant) Back(s *State) error {
	if s.IsSubmitted {
		return ErrTerminal
	}
	s.Hint = ""
	s.UpdatedAt = time.Now()

	if s.Finished() {
		if s.Terminal == TerminalDisqualified && v.DisqualifiedBack != "" {
			s.CurrentStep = v.DisqualifiedBack
		}
		s.clearOutcome()
		return nil
	}

	current, ok := v.Step(s.CurrentStep)
	if !ok {
		return fmt.Errorf("step not found: %s", s.CurrentStep)
	}
	if current.Back == "" {
		return ErrNoBackTarget
	}
	s.CurrentStep = current.Back
	return nil
}
