package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Engine keeps the registered variants and drives dialog states stored in
// a StateStorage.
type Engine struct {
	variants map[VariantID]*Variant
	storage  StateStorage
	log      *slog.Logger
}

func NewEngine(storage StateStorage, log *slog.Logger) *Engine {
	return &Engine{
		variants: make(map[VariantID]*Variant),
		storage:  storage,
		log:      log,
	}
}

// Register adds a variant after checking its graph.
func (e *Engine) Register(v *Variant) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("invalid variant: %w", err)
	}
	e.variants[v.ID] = v
	e.log.Debug("registered variant", slog.String("variant_id", string(v.ID)), slog.Int("steps", len(v.Steps)))
	return nil
}

func (e *Engine) Variant(id VariantID) (*Variant, bool) {
	v, ok := e.variants[id]
	return v, ok
}

// Start opens a new dialog positioned on the entry step.
func (e *Engine) Start(ctx context.Context, visitorID string, id VariantID) (*State, error) {
	v, ok := e.variants[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVariantNotFound, id)
	}

	state := NewState(visitorID, id, v.Entry)
	if err := e.storage.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("saving initial state: %w", err)
	}

	e.log.Debug("starting dialog",
		slog.String("session_id", state.SessionID),
		slog.String("variant_id", string(id)),
		slog.String("step_id", string(v.Entry)),
	)
	return state, nil
}

// StartSubmitted stores a thank-you state that skips the questionnaire.
func (e *Engine) StartSubmitted(ctx context.Context, visitorID string, id VariantID) (*State, error) {
	if _, ok := e.variants[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrVariantNotFound, id)
	}
	state := NewSubmittedState(visitorID, id)
	if err := e.storage.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("saving submitted state: %w", err)
	}
	return state, nil
}

// Select routes an answer to the current step of a stored dialog.
func (e *Engine) Select(ctx context.Context, sessionID string, step StepID, value string) (*State, error) {
	state, v, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err = v.Select(state, step, value); err != nil {
		e.log.Debug("rejected selection",
			slog.String("session_id", sessionID),
			slog.String("step_id", string(step)),
			slog.String("value", value),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if state.Finished() {
		e.log.Info("questionnaire finished",
			slog.String("session_id", sessionID),
			slog.String("variant_id", string(state.VariantID)),
			slog.String("terminal", string(state.Terminal)),
			slog.String("reason", state.DisqualifyReason),
		)
	}

	if err = e.storage.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("saving state after selection: %w", err)
	}
	return state, nil
}

// Back moves a stored dialog to the back target of its current step.
func (e *Engine) Back(ctx context.Context, sessionID string) (*State, error) {
	state, v, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err = v.Back(state); err != nil {
		return nil, err
	}
	if err = e.storage.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("saving state after back: %w", err)
	}
	return state, nil
}

// GetState retrieves a dialog state.
func (e *Engine) GetState(ctx context.Context, sessionID string) (*State, error) {
	state, _, err := e.load(ctx, sessionID)
	return state, err
}

// SaveState stores changes made outside the questionnaire, e.g. contact data.
func (e *Engine) SaveState(ctx context.Context, state *State) error {
	state.UpdatedAt = time.Now()
	return e.storage.Save(ctx, state)
}

// Close removes the dialog state.
func (e *Engine) Close(ctx context.Context, sessionID string) error {
	return e.storage.Delete(ctx, sessionID)
}

func (e *Engine) load(ctx context.Context, sessionID string) (*State, *Variant, error) {
	state, err := e.storage.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return nil, nil, ErrStateNotFound
	}
	v, ok := e.variants[state.VariantID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrVariantNotFound, state.VariantID)
	}
	return state, v, nil
}
