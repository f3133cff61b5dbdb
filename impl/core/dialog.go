package core

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
	"leadfunnel/internal/lib/sl"
	"leadfunnel/internal/metrics"
)

// OpenDialog starts a fresh session for the variant behind path. A visitor
// who already sent a lead gets the thank-you view and no questionnaire.
func (c *Core) OpenDialog(ctx context.Context, visitorID, path string) (View, error) {
	id := c.registry.Resolve(path)
	log := c.log.With(slog.String("variant_id", string(id)), slog.String("path", path))

	submitted, err := c.flags.IsSubmitted(ctx, visitorID)
	if err != nil {
		// an unreadable flag never blocks a new visitor
		log.With(sl.Err(err)).Warn("reading submission flag")
		submitted = false
	}

	var state *flow.State
	if submitted {
		state, err = c.engine.StartSubmitted(ctx, visitorID, id)
	} else {
		state, err = c.engine.Start(ctx, visitorID, id)
	}
	if err != nil {
		log.With(sl.Err(err)).Error("open dialog")
		return View{}, err
	}
	metrics.DialogsOpened.WithLabelValues(string(id), strconv.FormatBool(submitted)).Inc()

	v, _ := c.registry.Lookup(id)
	return c.view(state, v), nil
}

// Answer applies the option chosen on the current step.
func (c *Core) Answer(ctx context.Context, visitorID, sessionID string, step flow.StepID, value string) (View, error) {
	unlock := c.locks.lock(sessionID)
	defer unlock()

	if _, _, err := c.load(ctx, visitorID, sessionID); err != nil {
		return View{}, err
	}

	state, err := c.engine.Select(ctx, sessionID, step, value)
	if err != nil {
		return View{}, err
	}
	v, _ := c.engine.Variant(state.VariantID)

	if state.Finished() {
		metrics.DialogOutcomes.WithLabelValues(string(state.VariantID), string(state.Terminal), state.DisqualifyReason).Inc()
		if c.feed != nil {
			c.feed.BroadcastOutcome(entity.DialogOutcome{
				VariantID: string(state.VariantID),
				Terminal:  string(state.Terminal),
				Reason:    state.DisqualifyReason,
			})
		}
	}
	return c.view(state, v), nil
}

// Back follows the "Voltar" button.
func (c *Core) Back(ctx context.Context, visitorID, sessionID string) (View, error) {
	unlock := c.locks.lock(sessionID)
	defer unlock()

	if _, _, err := c.load(ctx, visitorID, sessionID); err != nil {
		return View{}, err
	}
	if c.isBusy(c.submitting, sessionID) {
		return View{}, ErrSubmitInFlight
	}

	state, err := c.engine.Back(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	v, _ := c.engine.Variant(state.VariantID)
	return c.view(state, v), nil
}

// GetDialog returns the current view of a session.
func (c *Core) GetDialog(ctx context.Context, visitorID, sessionID string) (View, error) {
	unlock := c.locks.lock(sessionID)
	defer unlock()

	state, v, err := c.load(ctx, visitorID, sessionID)
	if err != nil {
		return View{}, err
	}
	return c.view(state, v), nil
}

// CloseDialog drops the session. Closing an unknown session, or one of
// another visitor, is not an error and changes nothing.
func (c *Core) CloseDialog(ctx context.Context, visitorID, sessionID string) error {
	unlock := c.locks.lock(sessionID)
	defer unlock()

	if _, _, err := c.load(ctx, visitorID, sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if err := c.engine.Close(ctx, sessionID); err != nil {
		c.log.With(sl.Err(err), slog.String("session_id", sessionID)).Error("close dialog")
		return err
	}
	c.setBusy(c.checking, sessionID, false)
	return nil
}

// ResetSubmission clears the visitor's submission flag.
func (c *Core) ResetSubmission(ctx context.Context, visitorID string) error {
	if err := c.flags.Clear(ctx, visitorID); err != nil {
		c.log.With(sl.Err(err)).Error("clear submission flag")
		return err
	}
	c.log.Debug("submission flag cleared")
	return nil
}
