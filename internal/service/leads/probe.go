package leads

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"leadfunnel/internal/lib/sl"
)

type ProbeOutcome string

const (
	ProbeSkipped     ProbeOutcome = "skipped"
	ProbeReachable   ProbeOutcome = "reachable"
	ProbeServerError ProbeOutcome = "server_error"
	ProbeTimeout     ProbeOutcome = "timeout"
	ProbeFailed      ProbeOutcome = "failed"
)

// Probe checks that the origin of redirectURL answers below 500. It hits
// scheme://host/ only: the redirect path itself records a click.
// Only ProbeServerError should stop the redirect.
func (g *Gateway) Probe(ctx context.Context, redirectURL string) ProbeOutcome {
	log := g.log.With(slog.String("redirect_url", redirectURL))

	u, err := url.Parse(redirectURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		log.Warn("redirect url not probeable, following it")
		return ProbeFailed
	}
	probeURL := u.Scheme + "://" + u.Host + "/"

	ctx, cancel := context.WithTimeout(ctx, g.probeTimeout)
	defer cancel()

	type answer struct {
		status int
		err    error
	}
	done := make(chan answer, 1)

	go func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
		if err != nil {
			done <- answer{err: err}
			return
		}
		req.Header.Set("Cache-Control", "no-store")
		resp, err := g.probeClient.Do(req)
		if err != nil {
			done <- answer{err: err}
			return
		}
		_ = resp.Body.Close()
		done <- answer{status: resp.StatusCode}
	}()

	select {
	case <-ctx.Done():
		log.Warn("redirect probe timed out, following redirect")
		return ProbeTimeout
	case a := <-done:
		if a.err != nil {
			log.With(sl.Err(a.err)).Warn("redirect probe failed, following redirect")
			return ProbeFailed
		}
		if a.status >= 500 {
			log.With(slog.Int("status", a.status)).Warn("redirect target unavailable, falling back")
			return ProbeServerError
		}
		return ProbeReachable
	}
}
