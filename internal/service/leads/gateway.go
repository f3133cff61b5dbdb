package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"leadfunnel/entity"
	"leadfunnel/internal/config"
	"leadfunnel/internal/lib/sl"
)

// ErrSubmitFailed covers transport errors and non-2xx answers. The lead
// may be retried.
var ErrSubmitFailed = errors.New("lead submission failed")

type Gateway struct {
	url          string
	thanksPath   string
	probeTimeout time.Duration
	client       *http.Client
	probeClient  *http.Client
	log          *slog.Logger
}

func NewGateway(conf *config.Config, logger *slog.Logger) *Gateway {
	return &Gateway{
		url:          conf.Leads.URL,
		thanksPath:   conf.Leads.ThanksPath,
		probeTimeout: conf.Leads.ProbeTimeout,
		client:       &http.Client{Timeout: conf.Leads.Timeout},
		probeClient: &http.Client{
			// the probe looks at the router itself, never follows it
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: logger.With(sl.Module("leads")),
	}
}

// Result tells the caller where the visitor goes after an accepted lead.
// An empty Destination keeps the visitor on the dialog thank-you view.
type Result struct {
	RedirectURL string       `json:"redirect_url,omitempty"`
	Destination string       `json:"destination,omitempty"`
	Probe       ProbeOutcome `json:"probe,omitempty"`
}

// Submit posts the payload and resolves the post-submit destination.
func (g *Gateway) Submit(ctx context.Context, payload entity.LeadPayload, navigateOnSuccess bool) (Result, error) {
	resp, err := g.post(ctx, payload)
	if err != nil {
		return Result{}, err
	}
	return g.Resolve(ctx, resp.RedirectURL, navigateOnSuccess), nil
}

// Resolve picks the destination for an accepted lead.
func (g *Gateway) Resolve(ctx context.Context, redirectURL string, navigateOnSuccess bool) Result {
	if redirectURL == "" {
		if navigateOnSuccess {
			return Result{Destination: g.thanksPath, Probe: ProbeSkipped}
		}
		return Result{Probe: ProbeSkipped}
	}

	outcome := g.Probe(ctx, redirectURL)
	res := Result{RedirectURL: redirectURL, Destination: redirectURL, Probe: outcome}
	if outcome == ProbeServerError {
		res.Destination = g.thanksPath
	}
	return res
}

func (g *Gateway) post(ctx context.Context, payload entity.LeadPayload) (entity.LeadResponse, error) {
	var out entity.LeadResponse
	if g.url == "" {
		return out, fmt.Errorf("%w: leads url is not configured", ErrSubmitFailed)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.With(sl.Err(err)).Warn("lead POST")
		return out, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.log.With(slog.Int("status", resp.StatusCode)).Warn("non-2xx on lead POST")
		return out, fmt.Errorf("%w: status %d", ErrSubmitFailed, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return out, fmt.Errorf("%w: read body: %v", ErrSubmitFailed, err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err = json.Unmarshal(raw, &out); err != nil {
			return out, fmt.Errorf("%w: decode body: %v", ErrSubmitFailed, err)
		}
	}

	g.log.With(
		slog.String("slug", payload.Slug),
		slog.Bool("redirect", out.RedirectURL != ""),
	).Info("lead accepted")
	return out, nil
}
