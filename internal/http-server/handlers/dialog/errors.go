package dialog

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"leadfunnel/funnel/flow"
	"leadfunnel/impl/core"
	"leadfunnel/internal/lib/api/response"
	"leadfunnel/internal/lib/sl"
	"leadfunnel/internal/service/leads"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const mod = "http.handlers.dialog"

// SubmitFailedMessage is shown when the leads endpoint did not take the lead.
const SubmitFailedMessage = "Não foi possível enviar seus dados. Tente novamente."

var validate = validator.New()

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module(mod),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("session_id", chi.URLParam(r, "id")),
	)
}

// decode reads and validates a JSON body. An empty body leaves req as is.
func decode(r *http.Request, req interface{}) error {
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	return validate.Struct(req)
}

func badRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Debug("bad request", sl.Err(err))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error("Invalid request body"))
}

// fail maps a core error to a status code and envelope.
func fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal error"

	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		status, message = http.StatusNotFound, "Dialog not found"
	case errors.Is(err, flow.ErrOutOfTurn),
		errors.Is(err, flow.ErrUnknownOption),
		errors.Is(err, flow.ErrTerminal),
		errors.Is(err, flow.ErrNoBackTarget),
		errors.Is(err, core.ErrSubmitInFlight),
		errors.Is(err, core.ErrAlreadySubmitted),
		errors.Is(err, core.ErrNotSubmittable):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, flow.ErrVariantNotFound):
		status, message = http.StatusNotFound, "Variant not found"
	case errors.Is(err, leads.ErrSubmitFailed):
		status, message = http.StatusBadGateway, SubmitFailedMessage
	}

	if status >= http.StatusInternalServerError {
		logger.Error("dialog request failed", sl.Err(err))
	} else {
		logger.Debug("dialog request rejected", sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, response.Error(message))
}
