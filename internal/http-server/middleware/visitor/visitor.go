package visitor

import (
	"log/slog"
	"net/http"
	"time"

	"leadfunnel/internal/lib/api/cont"
	"leadfunnel/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// CookieName holds the anonymous visitor id the submission flag is keyed by.
const CookieName = "lf_visitor"

const cookieMaxAge = 365 * 24 * time.Hour

// New identifies the visitor, issuing a cookie on first contact, and logs
// every request.
func New(log *slog.Logger, secure bool) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.visitor")
	log.With(mod).Info("visitor middleware initialized")

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			id := middleware.GetReqID(r.Context())
			remote := r.RemoteAddr
			// if the request is coming from a proxy, use the X-Forwarded-For header
			xRemote := r.Header.Get("X-Forwarded-For")
			if xRemote != "" {
				remote = xRemote
			}
			logger := log.With(
				mod,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", remote),
				slog.String("request_id", id),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			loggerPtr := &logger
			defer func() {
				(*loggerPtr).With(
					slog.Int("status", ww.Status()),
					slog.Int("size", ww.BytesWritten()),
					slog.Float64("duration", time.Since(t1).Seconds()),
				).Info("incoming request")
			}()

			visitorID := ""
			if c, err := r.Cookie(CookieName); err == nil {
				if _, err = uuid.Parse(c.Value); err == nil {
					visitorID = c.Value
				}
			}
			if visitorID == "" {
				visitorID = uuid.NewString()
				http.SetCookie(ww, &http.Cookie{
					Name:     CookieName,
					Value:    visitorID,
					Path:     "/",
					MaxAge:   int(cookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
				*loggerPtr = (*loggerPtr).With(slog.Bool("new_visitor", true))
			}
			*loggerPtr = (*loggerPtr).With(sl.Secret("visitor", visitorID))

			ww.Header().Set("X-Request-ID", id)
			next.ServeHTTP(ww, r.WithContext(cont.PutVisitor(r.Context(), visitorID)))
		}

		return http.HandlerFunc(fn)
	}
}
