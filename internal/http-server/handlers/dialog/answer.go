package dialog

import (
	"log/slog"
	"net/http"

	"leadfunnel/funnel/flow"
	"leadfunnel/internal/lib/api/cont"
	"leadfunnel/internal/lib/api/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type AnswerRequest struct {
	StepID string `json:"step_id" validate:"required,max=64"`
	Value  string `json:"value" validate:"required,max=64"`
}

func Answer(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req AnswerRequest
		if err := decode(r, &req); err != nil {
			badRequest(w, r, logger, err)
			return
		}

		view, err := handler.Answer(r.Context(), cont.GetVisitor(r.Context()), chi.URLParam(r, "id"), flow.StepID(req.StepID), req.Value)
		if err != nil {
			fail(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(view))
	}
}

func Back(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := handler.Back(r.Context(), cont.GetVisitor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, r, requestLogger(log, r), err)
			return
		}
		render.JSON(w, r, response.Ok(view))
	}
}
