package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"leadfunnel/entity"
	"leadfunnel/funnel/contact"
	"leadfunnel/funnel/flow"
	"leadfunnel/internal/lib/sl"
	"leadfunnel/internal/metrics"
	"leadfunnel/internal/service/leads"
)

func (c *Core) contactSession(ctx context.Context, visitorID, sessionID string) (*flow.State, *flow.Variant, error) {
	state, v, err := c.load(ctx, visitorID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if state.IsSubmitted {
		return nil, nil, ErrAlreadySubmitted
	}
	if !state.Terminal.Submittable() {
		return nil, nil, ErrNotSubmittable
	}
	return state, v, nil
}

// applyContact stores the typed contact data, masking the phone. A changed
// number drops the previous verification.
func applyContact(state *flow.State, in entity.ContactInfo) {
	in.Phone = contact.FormatPhone(in.Phone)
	if contact.Digits(in.Phone) != contact.Digits(state.Contact.Phone) {
		state.PhoneCheck = string(contact.PhoneUnchecked)
	}
	state.Contact = in
}

// phoneStatus is the status the form gate sees. With a checker configured
// a complete number nobody has verified yet counts as pending.
func (c *Core) phoneStatus(s *flow.State) contact.PhoneStatus {
	status := contact.PhoneStatus(s.PhoneCheck)
	if status == contact.PhoneUnchecked && c.phones != nil && contact.IsCompletePhone(s.Contact.Phone) {
		return contact.PhonePending
	}
	return status
}

// startCheck marks the session number as pending when it needs a
// verification and no other one runs. The caller holds the session lock.
func (c *Core) startCheck(state *flow.State) (string, bool) {
	digits := contact.Digits(state.Contact.Phone)
	if c.phones == nil ||
		len(digits) != contact.PhoneDigits ||
		state.PhoneCheck != string(contact.PhoneUnchecked) ||
		!c.setBusy(c.checking, state.SessionID, true) {
		return "", false
	}
	state.PhoneCheck = string(contact.PhonePending)
	return digits, true
}

// checkPhone verifies digits outside the session lock and stores the
// answer. The caller owns the checking guard; it is released here, under
// the lock. When the visitor typed another complete number meanwhile, that
// one is verified next.
func (c *Core) checkPhone(ctx context.Context, visitorID, sessionID, digits string) (*flow.State, *flow.Variant, error) {
	for {
		status, err := c.phones.Check(ctx, digits)
		if err != nil {
			c.log.With(sl.Err(err), sl.Phone(digits)).Warn("phone verification")
			status = contact.PhoneUnknown
		}
		metrics.PhoneChecks.WithLabelValues(string(status)).Inc()

		unlock := c.locks.lock(sessionID)
		state, v, err := c.load(ctx, visitorID, sessionID)
		if err != nil {
			c.setBusy(c.checking, sessionID, false)
			unlock()
			return nil, nil, err
		}

		current := contact.Digits(state.Contact.Phone)
		check := contact.PhoneStatus(state.PhoneCheck)
		next := false
		switch {
		case state.IsSubmitted:
		case current == digits && (check == contact.PhonePending || check == contact.PhoneUnchecked):
			state.PhoneCheck = string(status)
		case len(current) == contact.PhoneDigits && check == contact.PhoneUnchecked:
			state.PhoneCheck = string(contact.PhonePending)
			next = true
		default:
			unlock()
			c.setBusy(c.checking, sessionID, false)
			return state, v, nil
		}

		if !state.IsSubmitted {
			if err = c.engine.SaveState(ctx, state); err != nil {
				c.setBusy(c.checking, sessionID, false)
				unlock()
				return nil, nil, fmt.Errorf("saving phone status: %w", err)
			}
		}
		if !next {
			c.setBusy(c.checking, sessionID, false)
			unlock()
			return state, v, nil
		}
		unlock()
		digits = current
	}
}

// UpdateContact stores the form fields and verifies the phone once it is
// complete. At most one verification runs per session.
func (c *Core) UpdateContact(ctx context.Context, visitorID, sessionID string, in entity.ContactInfo) (View, error) {
	unlock := c.locks.lock(sessionID)

	state, v, err := c.contactSession(ctx, visitorID, sessionID)
	if err != nil {
		unlock()
		return View{}, err
	}

	applyContact(state, in)
	digits, check := c.startCheck(state)

	if err = c.engine.SaveState(ctx, state); err != nil {
		if check {
			c.setBusy(c.checking, sessionID, false)
		}
		unlock()
		return View{}, fmt.Errorf("saving contact: %w", err)
	}
	unlock()

	if !check {
		return c.view(state, v), nil
	}

	state, v, err = c.checkPhone(ctx, visitorID, sessionID, digits)
	if err != nil {
		return View{}, err
	}
	return c.view(state, v), nil
}

// verifyBeforeSubmit runs the phone verification a submit needs when the
// number was never checked, e.g. a submit that skipped UpdateContact.
func (c *Core) verifyBeforeSubmit(ctx context.Context, visitorID, sessionID string, in entity.ContactInfo) error {
	unlock := c.locks.lock(sessionID)

	state, _, err := c.contactSession(ctx, visitorID, sessionID)
	if err != nil || c.isBusy(c.submitting, sessionID) {
		unlock()
		return err
	}

	applyContact(state, in.Trimmed())
	digits, check := c.startCheck(state)
	if !check {
		unlock()
		return nil
	}
	if err = c.engine.SaveState(ctx, state); err != nil {
		c.setBusy(c.checking, sessionID, false)
		unlock()
		return fmt.Errorf("saving contact: %w", err)
	}
	unlock()

	_, _, err = c.checkPhone(ctx, visitorID, sessionID, digits)
	return err
}

// SubmitContact validates the form and sends the lead. The payload is
// rebuilt on every attempt; a failed attempt leaves the session untouched
// so the visitor can retry.
func (c *Core) SubmitContact(ctx context.Context, visitorID, sessionID string, in entity.ContactInfo, attribution entity.Attribution) (SubmitResult, error) {
	in.Name = contact.NormalizeName(in.Name)
	if err := c.verifyBeforeSubmit(ctx, visitorID, sessionID, in); err != nil {
		return SubmitResult{}, err
	}

	unlock := c.locks.lock(sessionID)

	state, v, err := c.contactSession(ctx, visitorID, sessionID)
	if err != nil {
		unlock()
		return SubmitResult{}, err
	}
	log := c.log.With(
		slog.String("session_id", sessionID),
		slog.String("variant_id", string(state.VariantID)),
	)

	submitted, err := c.flags.IsSubmitted(ctx, state.VisitorID)
	if err != nil {
		log.With(sl.Err(err)).Warn("reading submission flag")
	}
	if submitted {
		unlock()
		metrics.LeadSubmissions.WithLabelValues(string(state.VariantID), "duplicate").Inc()
		return SubmitResult{}, ErrAlreadySubmitted
	}

	if c.isBusy(c.submitting, sessionID) {
		unlock()
		return SubmitResult{}, ErrSubmitInFlight
	}

	applyContact(state, in.Trimmed())

	form := contact.Form{Rules: rules(v), Contact: state.Contact, Phone: c.phoneStatus(state)}
	if form.SubmitDisabled() {
		if err = c.engine.SaveState(ctx, state); err != nil {
			log.With(sl.Err(err)).Warn("saving rejected contact")
		}
		unlock()
		metrics.LeadSubmissions.WithLabelValues(string(state.VariantID), "invalid").Inc()
		return SubmitResult{View: c.view(state, v)}, ErrInvalidContact
	}

	if err = c.engine.SaveState(ctx, state); err != nil {
		unlock()
		return SubmitResult{}, fmt.Errorf("saving contact: %w", err)
	}
	c.setBusy(c.submitting, sessionID, true)
	unlock()

	payload := leads.BuildPayload(state.Contact, v.Qualify(state.Answers, state.Terminal), attribution)

	metrics.ActiveSubmissions.Inc()
	started := time.Now()
	res, sendErr := c.gateway.Submit(ctx, payload, v.NavigateOnSuccess)
	metrics.LeadSubmitDuration.WithLabelValues(string(state.VariantID)).Observe(time.Since(started).Seconds())
	metrics.ActiveSubmissions.Dec()

	unlock = c.locks.lock(sessionID)
	defer unlock()
	c.setBusy(c.submitting, sessionID, false)

	if sendErr != nil {
		log.With(sl.Err(sendErr)).Error("submit lead")
		metrics.LeadSubmissions.WithLabelValues(string(state.VariantID), "failed").Inc()
		return SubmitResult{}, sendErr
	}
	metrics.LeadSubmissions.WithLabelValues(string(state.VariantID), "ok").Inc()
	if res.Probe != "" && res.Probe != leads.ProbeSkipped {
		metrics.RedirectProbes.WithLabelValues(string(res.Probe)).Inc()
	}

	if err = c.flags.MarkSubmitted(ctx, state.VisitorID); err != nil {
		// the lead is already accepted upstream; only the duplicate gate is lost
		log.With(sl.Err(err)).Error("setting submission flag")
	}

	// a dialog closed while the lead was in flight stays closed
	fresh, _, loadErr := c.load(ctx, visitorID, sessionID)
	closed := errors.Is(loadErr, ErrSessionNotFound)
	if loadErr == nil {
		state = fresh
	}
	state.IsSubmitted = true
	if !closed {
		if err = c.engine.SaveState(ctx, state); err != nil {
			log.With(sl.Err(err)).Warn("saving submitted state")
		}
	}

	c.publish(state, payload, res)
	log.Info("lead submitted", slog.String("destination", res.Destination), slog.Bool("dialog_closed", closed))

	return SubmitResult{
		View:        c.view(state, v),
		Destination: res.Destination,
		RedirectURL: res.RedirectURL,
	}, nil
}

func (c *Core) publish(state *flow.State, payload entity.LeadPayload, res leads.Result) {
	if c.feed == nil && c.notifier == nil {
		return
	}
	ev := entity.LeadEvent{
		Time:        time.Now(),
		SessionID:   state.SessionID,
		VariantID:   string(state.VariantID),
		Terminal:    string(state.Terminal),
		Slug:        payload.Slug,
		Name:        payload.Name,
		Phone:       payload.Phone,
		Email:       payload.Email,
		Fields:      payload.Fields,
		UtmSource:   payload.UtmSource,
		UtmCampaign: payload.UtmCampaign,
		Destination: res.Destination,
	}
	if c.feed != nil {
		c.feed.BroadcastLead(ev)
	}
	if c.notifier != nil {
		go c.notifier.Notify(ev)
	}
}
