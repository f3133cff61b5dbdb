package feed

import (
	"log/slog"
	"net/http"

	"leadfunnel/internal/lib/sl"
	"leadfunnel/internal/ws"
)

// Serve upgrades operators to the live lead feed.
func Serve(log *slog.Logger, hub *ws.Hub, auth ws.Authenticator) http.HandlerFunc {
	logger := log.With(sl.Module("http.handlers.feed"))
	return func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, auth, logger, w, r)
	}
}
