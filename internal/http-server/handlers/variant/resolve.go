package variant

import (
	"log/slog"
	"net/http"

	"leadfunnel/funnel/flow"
	"leadfunnel/internal/lib/api/response"
	"leadfunnel/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type ResolveResponse struct {
	Path      string         `json:"path"`
	VariantID flow.VariantID `json:"variant_id"`
}

// Resolve maps ?path=/lp-03 to its questionnaire id.
func Resolve(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.variant"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		path := r.URL.Query().Get("path")
		id := handler.ResolveVariant(path)

		logger.Debug("variant resolved", slog.String("path", path), slog.String("variant_id", string(id)))
		render.JSON(w, r, response.Ok(ResolveResponse{Path: path, VariantID: id}))
	}
}
