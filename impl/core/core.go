package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"leadfunnel/entity"
	"leadfunnel/funnel/contact"
	"leadfunnel/funnel/flow"
	"leadfunnel/funnel/variants"
	"leadfunnel/internal/lib/sl"
	"leadfunnel/internal/service/leads"
)

var (
	ErrSessionNotFound  = errors.New("dialog session not found")
	ErrSubmitInFlight   = errors.New("a submission is already in progress")
	ErrAlreadySubmitted = errors.New("lead already submitted")
	ErrNotSubmittable   = errors.New("questionnaire has no submittable outcome")
	ErrInvalidContact   = errors.New("contact data is invalid")
)

// FlagStore is the durable "lead already sent" marker, shared by every
// variant.
type FlagStore interface {
	IsSubmitted(ctx context.Context, visitorID string) (bool, error)
	MarkSubmitted(ctx context.Context, visitorID string) error
	Clear(ctx context.Context, visitorID string) error
}

type PhoneChecker interface {
	Check(ctx context.Context, phone string) (contact.PhoneStatus, error)
}

type LeadGateway interface {
	Submit(ctx context.Context, payload entity.LeadPayload, navigateOnSuccess bool) (leads.Result, error)
}

type Notifier interface {
	Notify(ev entity.LeadEvent)
}

type Feed interface {
	BroadcastLead(ev entity.LeadEvent)
	BroadcastOutcome(o entity.DialogOutcome)
}

type Core struct {
	engine   *flow.Engine
	registry *variants.Registry
	flags    FlagStore
	phones   PhoneChecker
	gateway  LeadGateway
	notifier Notifier
	feed     Feed

	locks *sessionLocks
	mu    sync.Mutex
	// submitting and checking hold the sessions with an outbound call running
	submitting map[string]bool
	checking   map[string]bool

	log *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		locks:      newSessionLocks(),
		submitting: make(map[string]bool),
		checking:   make(map[string]bool),
		log:        log.With(sl.Module("core")),
	}
}

func (c *Core) SetDialogs(engine *flow.Engine, registry *variants.Registry) {
	c.engine = engine
	c.registry = registry
}

func (c *Core) SetFlagStore(flags FlagStore) {
	c.flags = flags
}

func (c *Core) SetPhoneChecker(phones PhoneChecker) {
	c.phones = phones
}

func (c *Core) SetLeadGateway(gateway LeadGateway) {
	c.gateway = gateway
}

func (c *Core) SetNotifier(notifier Notifier) {
	c.notifier = notifier
}

func (c *Core) SetFeed(feed Feed) {
	c.feed = feed
}

// ResolveVariant maps a landing path to its variant id.
func (c *Core) ResolveVariant(path string) flow.VariantID {
	return c.registry.Resolve(path)
}

// FormatPhone applies the visitor-facing phone mask.
func (c *Core) FormatPhone(raw string) string {
	return contact.FormatPhone(raw)
}

// load returns the session owned by visitorID. A session of another
// visitor is reported as not found.
func (c *Core) load(ctx context.Context, visitorID, sessionID string) (*flow.State, *flow.Variant, error) {
	state, err := c.engine.GetState(ctx, sessionID)
	if errors.Is(err, flow.ErrStateNotFound) {
		return nil, nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if state.VisitorID != visitorID {
		return nil, nil, ErrSessionNotFound
	}
	v, ok := c.engine.Variant(state.VariantID)
	if !ok {
		return nil, nil, flow.ErrVariantNotFound
	}
	return state, v, nil
}

func (c *Core) setBusy(set map[string]bool, id string, busy bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if busy {
		if set[id] {
			return false
		}
		set[id] = true
		return true
	}
	delete(set, id)
	return true
}

func (c *Core) isBusy(set map[string]bool, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return set[id]
}
