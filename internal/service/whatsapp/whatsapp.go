package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"leadfunnel/funnel/contact"
	"leadfunnel/internal/config"
	"leadfunnel/internal/lib/sl"
)

const countryCode = "55"

// Noop never answers. Every number stays "unknown" and never blocks a lead.
type Noop struct{}

func (Noop) Check(_ context.Context, _ string) (contact.PhoneStatus, error) {
	return contact.PhoneUnknown, nil
}

// Client asks the number-validation endpoint whether a phone has WhatsApp.
type Client struct {
	url    string
	apiKey string
	client *http.Client
	log    *slog.Logger
}

func NewClient(conf *config.Config, logger *slog.Logger) *Client {
	return &Client{
		url:    conf.WhatsApp.URL,
		apiKey: conf.WhatsApp.ApiKey,
		client: &http.Client{Timeout: conf.WhatsApp.Timeout},
		log:    logger.With(sl.Module("whatsapp")),
	}
}

type checkRequest struct {
	Numbers []string `json:"numbers"`
}

type checkResult struct {
	Exists bool   `json:"exists"`
	Jid    string `json:"jid,omitempty"`
}

// Check returns PhoneUnknown with an error whenever the endpoint cannot give
// a definite answer. Incomplete numbers are not sent.
func (c *Client) Check(ctx context.Context, phone string) (contact.PhoneStatus, error) {
	digits := contact.Digits(phone)
	if len(digits) != contact.PhoneDigits {
		return contact.PhoneUnchecked, nil
	}
	log := c.log.With(sl.Phone(digits))

	body, err := json.Marshal(checkRequest{Numbers: []string{countryCode + digits}})
	if err != nil {
		return contact.PhoneUnknown, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return contact.PhoneUnknown, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.With(sl.Err(err)).Warn("whatsapp check")
		return contact.PhoneUnknown, fmt.Errorf("whatsapp check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.With(slog.Int("status", resp.StatusCode)).Warn("non-2xx on whatsapp check")
		return contact.PhoneUnknown, fmt.Errorf("whatsapp check: status %d", resp.StatusCode)
	}

	var results []checkResult
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return contact.PhoneUnknown, fmt.Errorf("decode whatsapp answer: %w", err)
	}
	if len(results) == 0 {
		return contact.PhoneUnknown, nil
	}

	if results[0].Exists {
		log.Debug("number has whatsapp")
		return contact.PhoneValid, nil
	}
	log.Debug("number has no whatsapp")
	return contact.PhoneInvalid, nil
}
