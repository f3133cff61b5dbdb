package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"leadfunnel/funnel/flow"
	"leadfunnel/funnel/variants"
	"leadfunnel/impl/core"
	"leadfunnel/internal/config"
	"leadfunnel/internal/http-server/middleware/visitor"
	"leadfunnel/internal/lib/logger"
	"leadfunnel/internal/service/leads"
	"leadfunnel/internal/service/whatsapp"
	"leadfunnel/internal/store/flag"
	"leadfunnel/internal/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Message string          `json:"status_message"`
}

type testServer struct {
	*httptest.Server
	client *http.Client
	posted *atomic.Int32
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.Discard()

	posted := &atomic.Int32{}
	leadsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posted.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(leadsSrv.Close)

	conf := &config.Config{}
	conf.Leads.URL = leadsSrv.URL
	conf.Leads.Timeout = 2 * time.Second
	conf.Leads.ProbeTimeout = 500 * time.Millisecond
	conf.Leads.ThanksPath = "/obrigado"
	conf.Listen.FeedKey = "operator-key"

	registry, err := variants.NewRegistry(variants.DefaultVariant)
	require.NoError(t, err)
	engine := flow.NewEngine(flow.NewMemoryStorage(time.Hour), log)
	require.NoError(t, registry.Install(engine))

	handler := core.New(log)
	handler.SetDialogs(engine, registry)
	handler.SetFlagStore(flag.NewMemory())
	handler.SetPhoneChecker(whatsapp.Noop{})
	handler.SetLeadGateway(leads.NewGateway(conf, log))

	srv := httptest.NewServer(NewRouter(conf, log, handler, ws.NewHub(log)))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testServer{Server: srv, client: &http.Client{Jar: jar}, posted: posted}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.Header.Get("Content-Type") != "" {
		_ = json.NewDecoder(resp.Body).Decode(&env)
	}
	return resp.StatusCode, env
}

func TestRouter_Lp05QualifiedLead(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/v1/dialog/open", map[string]string{"path": "/lp05"})
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	var view core.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, flow.VariantID("lp05"), view.VariantID)
	assert.False(t, view.AlreadySubmitted)
	require.NotNil(t, view.Step)
	assert.Equal(t, flow.StepID("q1-inss"), view.Step.ID)

	base := "/api/v1/dialog/" + view.SessionID
	answers := []struct{ step, value string }{
		{"q1-inss", "sim"},
		{"q2-benefit", "gt_4k"},
		{"q3-consignado", "sim"},
		{"q4-debt", "20k1_40k"},
	}
	for _, a := range answers {
		code, env = s.do(t, http.MethodPost, base+"/answer", map[string]string{"step_id": a.step, "value": a.value})
		require.Equal(t, http.StatusOK, code, a.step)
		require.True(t, env.Success, a.step)
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, flow.TerminalQualified, view.Terminal)
	require.NotNil(t, view.Form)

	contactBody := map[string]any{
		"name":    "Maria da Silva",
		"email":   "maria@example.com",
		"phone":   "11987654321",
		"consent": true,
	}
	code, env = s.do(t, http.MethodPost, base+"/contact", contactBody)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "(11) 9 8765-4321", view.Form.Contact.Phone)

	contactBody["page_url"] = "https://example.com/lp05?utm_source=fb"
	code, env = s.do(t, http.MethodPost, base+"/submit", contactBody)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success, env.Message)
	assert.Equal(t, int32(1), s.posted.Load())

	// same visitor cookie, any variant: the flag short-circuits the dialog
	code, env = s.do(t, http.MethodPost, "/api/v1/dialog/open", map[string]string{"path": "/lp-07"})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.AlreadySubmitted)

	code, _ = s.do(t, http.MethodPost, "/api/v1/dialog/reset", nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodPost, "/api/v1/dialog/open", map[string]string{"path": "/lp-07"})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.False(t, view.AlreadySubmitted)
	assert.Equal(t, flow.VariantID("lp07"), view.VariantID)
}

func TestRouter_VisitorCookieIssued(t *testing.T) {
	s := newTestServer(t)

	resp, err := http.Post(s.URL+"/api/v1/phone/format", "application/json", bytes.NewBufferString(`{"phone":"11987"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == visitor.CookieName {
			found = true
			assert.NotEmpty(t, c.Value)
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found)
}

func TestRouter_SessionOfOtherVisitor(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/v1/dialog/open", map[string]string{"path": "/lp05"})
	require.Equal(t, http.StatusOK, code)
	var view core.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	base := "/api/v1/dialog/" + view.SessionID

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	other := &testServer{Server: s.Server, client: &http.Client{Jar: jar}, posted: s.posted}

	code, _ = other.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = other.do(t, http.MethodPost, base+"/answer", map[string]string{"step_id": "q1-inss", "value": "sim"})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = other.do(t, http.MethodPost, base+"/submit", map[string]any{"name": "Maria da Silva", "phone": "11987654321"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Zero(t, s.posted.Load())

	code, env = s.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.NotNil(t, view.Step)
	assert.Equal(t, flow.StepID("q1-inss"), view.Step.ID)
}

func TestRouter_ResolveVariant(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/api/v1/variants/resolve?path=/lp-03/", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"lp03"`)

	code, env = s.do(t, http.MethodGet, "/api/v1/variants/resolve?path=/promo", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"lp06"`)
}

func TestRouter_Errors(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/api/v1/dialog/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	code, _ = s.do(t, http.MethodPost, "/api/v1/dialog/missing/answer", map[string]string{"step_id": "q1"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPut, "/api/v1/dialog/open", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestRouter_FeedRequiresKey(t *testing.T) {
	s := newTestServer(t)

	resp, err := http.Get(s.URL + "/feed?token=wrong")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)

	resp, err := http.Get(s.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
