package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"leadfunnel/internal/config"
	"leadfunnel/internal/http-server/handlers/dialog"
	errs "leadfunnel/internal/http-server/handlers/errors"
	"leadfunnel/internal/http-server/handlers/feed"
	"leadfunnel/internal/http-server/handlers/phone"
	"leadfunnel/internal/http-server/handlers/variant"
	"leadfunnel/internal/http-server/middleware/visitor"
	"leadfunnel/internal/lib/sl"
	"leadfunnel/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	dialog.Core
	variant.Core
	phone.Core
}

// NewRouter wires every route. hub may be nil, the feed is then not served.
func NewRouter(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errs.NotFound(log))
	router.MethodNotAllowed(errs.NotAllowed(log))

	// a submit waits for the leads endpoint and the redirect probe
	requestTimeout := conf.Leads.Timeout + conf.Leads.ProbeTimeout + 5*time.Second

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.Timeout(requestTimeout))
		v1.Use(render.SetContentType(render.ContentTypeJSON))
		v1.Use(visitor.New(log, conf.Listen.CookieSecure))

		v1.Get("/variants/resolve", variant.Resolve(log, handler))
		v1.Post("/phone/format", phone.Format(log, handler))

		v1.Route("/dialog", func(r chi.Router) {
			r.Post("/open", dialog.Open(log, handler))
			r.Post("/reset", dialog.Reset(log, handler))
			r.Get("/{id}", dialog.Get(log, handler))
			r.Delete("/{id}", dialog.Close(log, handler))
			r.Post("/{id}/answer", dialog.Answer(log, handler))
			r.Post("/{id}/back", dialog.Back(log, handler))
			r.Post("/{id}/contact", dialog.UpdateContact(log, handler))
			r.Post("/{id}/submit", dialog.Submit(log, handler))
		})
	})

	if hub != nil {
		router.Get("/feed", feed.Serve(log, hub, ws.KeyAuth(conf.Listen.FeedKey)))
	}
	router.Handle("/metrics", promhttp.Handler())

	return router
}

// New serves the API until ctx is done.
func New(ctx context.Context, conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:           NewRouter(conf, log, handler, hub),
		ErrorLog:          httpLog,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.httpServer.Shutdown(shutdownCtx); err != nil {
			server.log.Error("server shutdown", sl.Err(err))
		}
	}()

	err = server.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
