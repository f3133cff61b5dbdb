package dialog

import (
	"log/slog"
	"net/http"

	"leadfunnel/internal/lib/api/cont"
	"leadfunnel/internal/lib/api/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type OpenRequest struct {
	Path string `json:"path" validate:"max=512"`
}

func Open(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req OpenRequest
		if err := decode(r, &req); err != nil {
			badRequest(w, r, logger, err)
			return
		}

		view, err := handler.OpenDialog(r.Context(), cont.GetVisitor(r.Context()), req.Path)
		if err != nil {
			fail(w, r, logger, err)
			return
		}

		logger.Debug("dialog opened",
			slog.String("variant_id", string(view.VariantID)),
			slog.Bool("already_submitted", view.AlreadySubmitted),
		)
		render.JSON(w, r, response.Ok(view))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := handler.GetDialog(r.Context(), cont.GetVisitor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, r, requestLogger(log, r), err)
			return
		}
		render.JSON(w, r, response.Ok(view))
	}
}

func Close(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler.CloseDialog(r.Context(), cont.GetVisitor(r.Context()), chi.URLParam(r, "id")); err != nil {
			fail(w, r, requestLogger(log, r), err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

// Reset clears the visitor's "already submitted" flag.
func Reset(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler.ResetSubmission(r.Context(), cont.GetVisitor(r.Context())); err != nil {
			fail(w, r, requestLogger(log, r), err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}
