package phone

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"leadfunnel/internal/lib/api/response"
	"leadfunnel/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type FormatRequest struct {
	Phone string `json:"phone" validate:"max=64"`
}

type FormatResponse struct {
	Phone string `json:"phone"`
}

func Format(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.phone"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req FormatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Debug("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		render.JSON(w, r, response.Ok(FormatResponse{Phone: handler.FormatPhone(req.Phone)}))
	}
}
