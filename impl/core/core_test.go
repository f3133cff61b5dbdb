package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"leadfunnel/entity"
	"leadfunnel/funnel/contact"
	"leadfunnel/funnel/flow"
	"leadfunnel/funnel/variants"
	"leadfunnel/internal/lib/logger"
	"leadfunnel/internal/service/leads"
	"leadfunnel/internal/store/flag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu       sync.Mutex
	payloads []entity.LeadPayload
	submit   func(ctx context.Context) (leads.Result, error)
}

func (g *fakeGateway) Submit(ctx context.Context, payload entity.LeadPayload, navigate bool) (leads.Result, error) {
	g.mu.Lock()
	g.payloads = append(g.payloads, payload)
	g.mu.Unlock()
	if g.submit != nil {
		return g.submit(ctx)
	}
	if navigate {
		return leads.Result{Destination: "/obrigado", Probe: leads.ProbeSkipped}, nil
	}
	return leads.Result{Probe: leads.ProbeSkipped}, nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.payloads)
}

type fakePhones struct {
	status contact.PhoneStatus
}

func (p fakePhones) Check(context.Context, string) (contact.PhoneStatus, error) {
	return p.status, nil
}

// scriptedPhones answers per number. When hold is set the first check
// waits for it to be closed.
type scriptedPhones struct {
	mu      sync.Mutex
	numbers []string
	status  map[string]contact.PhoneStatus
	entered chan struct{}
	hold    chan struct{}
}

func (p *scriptedPhones) Check(_ context.Context, phone string) (contact.PhoneStatus, error) {
	p.mu.Lock()
	p.numbers = append(p.numbers, phone)
	first := len(p.numbers) == 1
	p.mu.Unlock()
	if first && p.hold != nil {
		close(p.entered)
		<-p.hold
	}
	return p.status[phone], nil
}

func (p *scriptedPhones) checked() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.numbers...)
}

type recordingFeed struct {
	mu       sync.Mutex
	leads    []entity.LeadEvent
	outcomes []entity.DialogOutcome
}

func (f *recordingFeed) BroadcastLead(ev entity.LeadEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = append(f.leads, ev)
}

func (f *recordingFeed) BroadcastOutcome(o entity.DialogOutcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, o)
}

type fixture struct {
	core    *Core
	flags   *flag.Memory
	gateway *fakeGateway
	feed    *recordingFeed
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.Discard()

	registry, err := variants.NewRegistry(variants.DefaultVariant)
	require.NoError(t, err)
	engine := flow.NewEngine(flow.NewMemoryStorage(time.Hour), log)
	require.NoError(t, registry.Install(engine))

	f := &fixture{
		core:    New(log),
		flags:   flag.NewMemory(),
		gateway: &fakeGateway{},
		feed:    &recordingFeed{},
	}
	f.core.SetDialogs(engine, registry)
	f.core.SetFlagStore(f.flags)
	f.core.SetLeadGateway(f.gateway)
	f.core.SetPhoneChecker(fakePhones{status: contact.PhoneUnknown})
	f.core.SetFeed(f.feed)
	return f
}

var validContact = entity.ContactInfo{Name: "Maria  Silva", Phone: "11987654321"}

func (f *fixture) qualified(t *testing.T, visitor string) View {
	t.Helper()
	ctx := context.Background()
	view, err := f.core.OpenDialog(ctx, visitor, "/lp-08")
	require.NoError(t, err)
	require.Equal(t, flow.VariantID("lp08"), view.VariantID)
	require.NotNil(t, view.Step)

	view, err = f.core.Answer(ctx, visitor, view.SessionID, "qualify-inss", "yes")
	require.NoError(t, err)
	view, err = f.core.Answer(ctx, visitor, view.SessionID, "qualify-benefit", "yes")
	require.NoError(t, err)
	require.Equal(t, flow.TerminalQualified, view.Terminal)
	require.NotNil(t, view.Form)
	return view
}

func TestQualifyAndSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view := f.qualified(t, "visitor-1")

	res, err := f.core.SubmitContact(ctx, "visitor-1", view.SessionID, validContact,
		entity.NewAttribution("https://site.test/lp-08?utm_source=ig", "", "", ""))
	require.NoError(t, err)
	assert.True(t, res.View.AlreadySubmitted)

	require.Equal(t, 1, f.gateway.calls())
	p := f.gateway.payloads[0]
	assert.Equal(t, "Maria Silva", p.Name)
	assert.Equal(t, "(11) 9 8765-4321", p.Phone)
	assert.Equal(t, "site.test/lp-08", p.Slug)
	assert.Equal(t, "Sim", p.Fields[entity.FieldIsInss])
	assert.Equal(t, "Sim", p.Fields[entity.FieldBenefitAbove2k])

	ok, err := f.flags.IsSubmitted(ctx, "visitor-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, f.feed.leads, 1)
	assert.Len(t, f.feed.outcomes, 1)

	t.Run("second submit is rejected", func(t *testing.T) {
		_, err := f.core.SubmitContact(ctx, "visitor-1", view.SessionID, validContact, entity.Attribution{})
		assert.ErrorIs(t, err, ErrAlreadySubmitted)
		assert.Equal(t, 1, f.gateway.calls())
	})

	t.Run("reopen shows thank-you on any variant", func(t *testing.T) {
		for _, path := range []string{"/lp-08", "/lp01", "/"} {
			again, err := f.core.OpenDialog(ctx, "visitor-1", path)
			require.NoError(t, err)
			assert.True(t, again.AlreadySubmitted, path)
			assert.Nil(t, again.Step, path)

			_, err = f.core.Answer(ctx, "visitor-1", again.SessionID, "qualify-inss", "yes")
			assert.ErrorIs(t, err, flow.ErrTerminal)
		}
	})

	t.Run("other visitors are not affected", func(t *testing.T) {
		other, err := f.core.OpenDialog(ctx, "visitor-2", "/lp-08")
		require.NoError(t, err)
		assert.False(t, other.AlreadySubmitted)
	})

	t.Run("reset clears the flag", func(t *testing.T) {
		require.NoError(t, f.core.ResetSubmission(ctx, "visitor-1"))
		again, err := f.core.OpenDialog(ctx, "visitor-1", "/lp-08")
		require.NoError(t, err)
		assert.False(t, again.AlreadySubmitted)
		assert.NotNil(t, again.Step)
	})
}

func TestDisqualifiedCannotSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	view, err := f.core.OpenDialog(ctx, "v", "/lp-08")
	require.NoError(t, err)
	view, err = f.core.Answer(ctx, "v", view.SessionID, "qualify-inss", "no")
	require.NoError(t, err)
	assert.Equal(t, flow.TerminalDisqualified, view.Terminal)
	assert.Nil(t, view.Form)
	require.NotNil(t, view.Outcome)
	assert.Contains(t, view.Outcome.Body, "aposentados e pensionistas")

	_, err = f.core.SubmitContact(ctx, "v", view.SessionID, validContact, entity.Attribution{})
	assert.ErrorIs(t, err, ErrNotSubmittable)
	assert.Zero(t, f.gateway.calls())

	view, err = f.core.Back(ctx, "v", view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, flow.TerminalNone, view.Terminal)
	require.NotNil(t, view.Step)
	assert.Equal(t, flow.StepID("qualify-inss"), view.Step.ID)
	assert.Equal(t, "no", view.Step.Selected)
}

func TestInvalidContact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view := f.qualified(t, "v")

	res, err := f.core.SubmitContact(ctx, "v", view.SessionID, entity.ContactInfo{Name: "Maria", Phone: "1198"}, entity.Attribution{})
	assert.ErrorIs(t, err, ErrInvalidContact)
	require.NotNil(t, res.View.Form)
	assert.Contains(t, res.View.Form.Errors, "name")
	assert.Contains(t, res.View.Form.Errors, "phone")
	assert.True(t, res.View.Form.SubmitDisabled)
	assert.Zero(t, f.gateway.calls())
}

func TestSubmitFailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view := f.qualified(t, "v")

	f.gateway.submit = func(context.Context) (leads.Result, error) {
		return leads.Result{}, leads.ErrSubmitFailed
	}
	_, err := f.core.SubmitContact(ctx, "v", view.SessionID, validContact, entity.Attribution{})
	assert.ErrorIs(t, err, leads.ErrSubmitFailed)

	ok, _ := f.flags.IsSubmitted(ctx, "v")
	assert.False(t, ok)

	f.gateway.submit = nil
	res, err := f.core.SubmitContact(ctx, "v", view.SessionID, validContact, entity.Attribution{})
	require.NoError(t, err)
	assert.True(t, res.View.AlreadySubmitted)
	assert.Equal(t, 2, f.gateway.calls())
}

func TestSubmitInFlight(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view := f.qualified(t, "v")

	entered := make(chan struct{})
	release := make(chan struct{})
	f.gateway.submit = func(context.Context) (leads.Result, error) {
		close(entered)
		<-release
		return leads.Result{}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.core.SubmitContact(ctx, "v", view.SessionID, validContact, entity.Attribution{})
		done <- err
	}()
	<-entered

	_, err := f.core.SubmitContact(ctx, "v", view.SessionID, validContact, entity.Attribution{})
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	_, err = f.core.Back(ctx, "v", view.SessionID)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	current, err := f.core.GetDialog(ctx, "v", view.SessionID)
	require.NoError(t, err)
	require.NotNil(t, current.Form)
	assert.True(t, current.Form.Submitting)
	assert.True(t, current.Form.SubmitDisabled)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.gateway.calls())
}

func TestUpdateContact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.core.SetPhoneChecker(fakePhones{status: contact.PhoneInvalid})
	view := f.qualified(t, "v")

	view, err := f.core.UpdateContact(ctx, "v", view.SessionID, entity.ContactInfo{Phone: "119876"})
	require.NoError(t, err)
	assert.Equal(t, "(11) 9 876", view.Form.Contact.Phone)
	assert.Equal(t, contact.PhoneUnchecked, view.Form.PhoneStatus)

	view, err = f.core.UpdateContact(ctx, "v", view.SessionID, validContact)
	require.NoError(t, err)
	assert.Equal(t, contact.PhoneInvalid, view.Form.PhoneStatus)
	assert.True(t, view.Form.SubmitDisabled)

	_, err = f.core.SubmitContact(ctx, "v", view.SessionID, validContact, entity.Attribution{})
	assert.ErrorIs(t, err, ErrInvalidContact)

	f.core.SetPhoneChecker(fakePhones{status: contact.PhoneValid})
	view, err = f.core.UpdateContact(ctx, "v", view.SessionID, entity.ContactInfo{Name: "Maria Silva", Phone: "21987654321"})
	require.NoError(t, err)
	assert.Equal(t, contact.PhoneValid, view.Form.PhoneStatus)
	assert.False(t, view.Form.SubmitDisabled)
}

func TestSessionErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.core.Answer(ctx, "v", "missing", "qualify-inss", "yes")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.core.Back(ctx, "v", "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.core.SubmitContact(ctx, "v", "missing", validContact, entity.Attribution{})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	view, err := f.core.OpenDialog(ctx, "v", "/lp-08")
	require.NoError(t, err)
	_, err = f.core.Answer(ctx, "v", view.SessionID, "qualify-benefit", "yes")
	assert.True(t, errors.Is(err, flow.ErrOutOfTurn))
	_, err = f.core.Answer(ctx, "v", view.SessionID, "qualify-inss", "maybe")
	assert.True(t, errors.Is(err, flow.ErrUnknownOption))
	_, err = f.core.Back(ctx, "v", view.SessionID)
	assert.ErrorIs(t, err, flow.ErrNoBackTarget)

	require.NoError(t, f.core.CloseDialog(ctx, "v", view.SessionID))
	_, err = f.core.GetDialog(ctx, "v", view.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionLocks(t *testing.T) {
	l := newSessionLocks()
	unlock := l.lock("a")
	unlockB := l.lock("b")
	unlockB()
	unlock()
	assert.Empty(t, l.locks)
}

func TestSubmitChecksUnverifiedPhone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.core.SetPhoneChecker(fakePhones{status: contact.PhoneInvalid})
	view := f.qualified(t, "v")

	res, err := f.core.SubmitContact(ctx, "v", view.SessionID, validContact, entity.Attribution{})
	assert.ErrorIs(t, err, ErrInvalidContact)
	require.NotNil(t, res.View.Form)
	assert.Equal(t, contact.PhoneInvalid, res.View.Form.PhoneStatus)
	assert.True(t, res.View.Form.SubmitDisabled)
	assert.Zero(t, f.gateway.calls())

	ok, err := f.flags.IsSubmitted(ctx, "v")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubmitWithChangedPhone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	phones := &scriptedPhones{status: map[string]contact.PhoneStatus{
		"11911111111": contact.PhoneValid,
		"11922222222": contact.PhoneInvalid,
	}}
	f.core.SetPhoneChecker(phones)
	view := f.qualified(t, "v")

	view, err := f.core.UpdateContact(ctx, "v", view.SessionID, entity.ContactInfo{Name: "Maria Silva", Phone: "11911111111"})
	require.NoError(t, err)
	assert.Equal(t, contact.PhoneValid, view.Form.PhoneStatus)

	_, err = f.core.SubmitContact(ctx, "v", view.SessionID, entity.ContactInfo{Name: "Maria Silva", Phone: "11922222222"}, entity.Attribution{})
	assert.ErrorIs(t, err, ErrInvalidContact)
	assert.Zero(t, f.gateway.calls())
	assert.Equal(t, []string{"11911111111", "11922222222"}, phones.checked())
}

func TestPhoneChangedDuringCheck(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	phones := &scriptedPhones{
		status: map[string]contact.PhoneStatus{
			"11911111111": contact.PhoneValid,
			"11922222222": contact.PhoneInvalid,
		},
		entered: make(chan struct{}),
		hold:    make(chan struct{}),
	}
	f.core.SetPhoneChecker(phones)
	view := f.qualified(t, "v")

	done := make(chan error, 1)
	go func() {
		_, err := f.core.UpdateContact(ctx, "v", view.SessionID, entity.ContactInfo{Name: "Maria Silva", Phone: "11911111111"})
		done <- err
	}()
	<-phones.entered

	changed, err := f.core.UpdateContact(ctx, "v", view.SessionID, entity.ContactInfo{Name: "Maria Silva", Phone: "11922222222"})
	require.NoError(t, err)
	assert.Equal(t, contact.PhonePending, changed.Form.PhoneStatus)
	assert.True(t, changed.Form.SubmitDisabled)

	close(phones.hold)
	require.NoError(t, <-done)

	current, err := f.core.GetDialog(ctx, "v", view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "(11) 9 2222-2222", current.Form.Contact.Phone)
	assert.Equal(t, contact.PhoneInvalid, current.Form.PhoneStatus)
	assert.True(t, current.Form.SubmitDisabled)
	assert.Equal(t, []string{"11911111111", "11922222222"}, phones.checked())
}

func TestCloseDuringSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view := f.qualified(t, "v")

	entered := make(chan struct{})
	release := make(chan struct{})
	f.gateway.submit = func(context.Context) (leads.Result, error) {
		close(entered)
		<-release
		return leads.Result{Destination: "/obrigado"}, nil
	}

	type outcome struct {
		res SubmitResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := f.core.SubmitContact(ctx, "v", view.SessionID, validContact, entity.Attribution{})
		done <- outcome{res, err}
	}()
	<-entered

	require.NoError(t, f.core.CloseDialog(ctx, "v", view.SessionID))
	_, err := f.core.GetDialog(ctx, "v", view.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	close(release)
	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, "/obrigado", out.res.Destination)
	assert.True(t, out.res.View.AlreadySubmitted)

	_, err = f.core.GetDialog(ctx, "v", view.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	ok, err := f.flags.IsSubmitted(ctx, "v")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionOwnedByVisitor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	view := f.qualified(t, "owner")

	_, err := f.core.GetDialog(ctx, "intruder", view.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.core.Answer(ctx, "intruder", view.SessionID, "qualify-inss", "yes")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.core.Back(ctx, "intruder", view.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.core.UpdateContact(ctx, "intruder", view.SessionID, validContact)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.core.SubmitContact(ctx, "intruder", view.SessionID, validContact, entity.Attribution{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, f.gateway.calls())

	require.NoError(t, f.core.CloseDialog(ctx, "intruder", view.SessionID))

	current, err := f.core.GetDialog(ctx, "owner", view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, flow.TerminalQualified, current.Terminal)
	assert.Empty(t, current.Form.Contact.Phone)
}
