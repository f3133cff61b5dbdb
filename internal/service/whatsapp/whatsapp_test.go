package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadfunnel/funnel/contact"
	"leadfunnel/internal/config"
	"leadfunnel/internal/lib/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string) *Client {
	conf := &config.Config{}
	conf.WhatsApp.URL = url
	conf.WhatsApp.ApiKey = "secret"
	conf.WhatsApp.Timeout = time.Second
	return NewClient(conf, logger.Discard())
}

func TestNoop(t *testing.T) {
	status, err := Noop{}.Check(context.Background(), "11987654321")
	require.NoError(t, err)
	assert.Equal(t, contact.PhoneUnknown, status)
}

func TestClientCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		var req checkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Numbers, 1)
		exists := req.Numbers[0] == "5511987654321"
		_ = json.NewEncoder(w).Encode([]checkResult{{Exists: exists}})
	}))
	defer srv.Close()

	c := testClient(srv.URL)

	status, err := c.Check(context.Background(), "(11) 9 8765-4321")
	require.NoError(t, err)
	assert.Equal(t, contact.PhoneValid, status)

	status, err = c.Check(context.Background(), "11900000000")
	require.NoError(t, err)
	assert.Equal(t, contact.PhoneInvalid, status)
}

func TestClientIncompleteNumber(t *testing.T) {
	c := testClient("http://127.0.0.1:1")
	status, err := c.Check(context.Background(), "(11) 9 87")
	require.NoError(t, err)
	assert.Equal(t, contact.PhoneUnchecked, status)
}

func TestClientUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	status, err := testClient(srv.URL).Check(context.Background(), "11987654321")
	assert.Error(t, err)
	assert.Equal(t, contact.PhoneUnknown, status)
}
