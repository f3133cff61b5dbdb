package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
	"leadfunnel/impl/core"
	"leadfunnel/internal/lib/api/cont"
	"leadfunnel/internal/lib/api/response"
	"leadfunnel/internal/lib/logger"
	"leadfunnel/internal/service/leads"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCore answers every call with err, or with a fixed view.
type stubCore struct {
	err         error
	attribution entity.Attribution
	step        flow.StepID
	value       string
	visitor     string
}

func (s *stubCore) view(id string) (core.View, error) {
	return core.View{SessionID: id, VariantID: "lp06"}, s.err
}

func (s *stubCore) OpenDialog(_ context.Context, _, _ string) (core.View, error) {
	return s.view("new")
}

func (s *stubCore) GetDialog(_ context.Context, visitor, id string) (core.View, error) {
	s.visitor = visitor
	return s.view(id)
}

func (s *stubCore) Answer(_ context.Context, visitor, id string, step flow.StepID, value string) (core.View, error) {
	s.step, s.value, s.visitor = step, value, visitor
	return s.view(id)
}

func (s *stubCore) Back(_ context.Context, _, id string) (core.View, error) {
	return s.view(id)
}

func (s *stubCore) UpdateContact(_ context.Context, _, id string, _ entity.ContactInfo) (core.View, error) {
	return s.view(id)
}

func (s *stubCore) SubmitContact(_ context.Context, visitor, id string, _ entity.ContactInfo, a entity.Attribution) (core.SubmitResult, error) {
	s.attribution, s.visitor = a, visitor
	v, err := s.view(id)
	return core.SubmitResult{View: v, Destination: "/obrigado"}, err
}

func (s *stubCore) CloseDialog(context.Context, string, string) error { return s.err }

func (s *stubCore) ResetSubmission(context.Context, string) error { return s.err }

func serve(stub *stubCore, method, target, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, response.Response) {
	log := logger.Discard()
	r := chi.NewRouter()
	r.Post("/dialog/{id}/answer", Answer(log, stub))
	r.Post("/dialog/{id}/submit", Submit(log, stub))
	r.Get("/dialog/{id}", Get(log, stub))
	r.Post("/dialog/open", Open(log, stub))

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(cont.PutVisitor(req.Context(), "visitor-1"))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var res response.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	return rec, res
}

func TestAnswer_PassesStepAndValue(t *testing.T) {
	stub := &stubCore{}
	rec, res := serve(stub, http.MethodPost, "/dialog/s1/answer", `{"step_id":"q_age","value":"60_plus"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
	assert.Equal(t, flow.StepID("q_age"), stub.step)
	assert.Equal(t, "60_plus", stub.value)
	assert.Equal(t, "visitor-1", stub.visitor)
}

func TestAnswer_RejectsMissingValue(t *testing.T) {
	rec, res := serve(&stubCore{}, http.MethodPost, "/dialog/s1/answer", `{"step_id":"q_age"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, res.Success)

	rec, _ = serve(&stubCore{}, http.MethodPost, "/dialog/s1/answer", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpen_EmptyBodyAllowed(t *testing.T) {
	rec, res := serve(&stubCore{}, http.MethodPost, "/dialog/open", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
}

func TestFail_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{core.ErrSessionNotFound, http.StatusNotFound},
		{flow.ErrVariantNotFound, http.StatusNotFound},
		{flow.ErrOutOfTurn, http.StatusConflict},
		{flow.ErrUnknownOption, http.StatusConflict},
		{flow.ErrTerminal, http.StatusConflict},
		{core.ErrSubmitInFlight, http.StatusConflict},
		{core.ErrAlreadySubmitted, http.StatusConflict},
		{fmt.Errorf("post: %w", leads.ErrSubmitFailed), http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec, res := serve(&stubCore{err: tc.err}, http.MethodGet, "/dialog/s1", "")
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.False(t, res.Success)
	}
}

func TestSubmit_InvalidContactIsFormState(t *testing.T) {
	rec, res := serve(&stubCore{err: core.ErrInvalidContact}, http.MethodPost, "/dialog/s1/submit", `{"name":"x"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, res.Success)
	assert.NotNil(t, res.Data)
}

func TestSubmit_FailedShowsRetryMessage(t *testing.T) {
	rec, res := serve(&stubCore{err: leads.ErrSubmitFailed}, http.MethodPost, "/dialog/s1/submit", `{}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, SubmitFailedMessage, res.Message)
}

func TestSubmit_AttributionFromPageAndCookies(t *testing.T) {
	stub := &stubCore{}
	body := `{"name":"Ana Souza","phone":"11987654321","page_url":"https://x.com/lp06?utm_source=fb&utm_campaign=inss"}`
	rec, res := serve(stub, http.MethodPost, "/dialog/s1/submit", body,
		&http.Cookie{Name: "_fbp", Value: "fb.1.123"},
		&http.Cookie{Name: "_fbc", Value: "fb.1.456"},
	)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
	assert.Equal(t, "fb", stub.attribution.UtmSource)
	assert.Equal(t, "inss", stub.attribution.UtmCampaign)
	assert.Equal(t, "fb.1.123", stub.attribution.Fbp)
	assert.Equal(t, "fb.1.456", stub.attribution.Fbc)
	assert.Equal(t, "visitor-1", stub.visitor)
}

func TestGet_PassesVisitor(t *testing.T) {
	stub := &stubCore{}
	rec, res := serve(stub, http.MethodGet, "/dialog/s1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
	assert.Equal(t, "visitor-1", stub.visitor)
}
