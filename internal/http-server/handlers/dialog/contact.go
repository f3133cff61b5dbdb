package dialog

import (
	"errors"
	"log/slog"
	"net/http"

	"leadfunnel/entity"
	"leadfunnel/impl/core"
	"leadfunnel/internal/lib/api/cont"
	"leadfunnel/internal/lib/api/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ContactRequest struct {
	Name    string `json:"name" validate:"max=120"`
	Email   string `json:"email" validate:"max=160"`
	Phone   string `json:"phone" validate:"max=32"`
	Consent bool   `json:"consent"`
}

func (c ContactRequest) contact() entity.ContactInfo {
	return entity.ContactInfo{Name: c.Name, Email: c.Email, Phone: c.Phone, Consent: c.Consent}
}

type SubmitRequest struct {
	ContactRequest
	PageURL  string `json:"page_url" validate:"max=2048"`
	Referrer string `json:"referrer" validate:"max=2048"`
}

func UpdateContact(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req ContactRequest
		if err := decode(r, &req); err != nil {
			badRequest(w, r, logger, err)
			return
		}

		view, err := handler.UpdateContact(r.Context(), cont.GetVisitor(r.Context()), chi.URLParam(r, "id"), req.contact())
		if err != nil {
			fail(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(view))
	}
}

// Submit sends the lead. Attribution comes from the page URL and the
// Meta pixel cookies.
func Submit(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req SubmitRequest
		if err := decode(r, &req); err != nil {
			badRequest(w, r, logger, err)
			return
		}

		referrer := req.Referrer
		if referrer == "" {
			referrer = r.Referer()
		}
		attribution := entity.NewAttribution(req.PageURL, referrer, cookie(r, "_fbp"), cookie(r, "_fbc"))

		res, err := handler.SubmitContact(r.Context(), cont.GetVisitor(r.Context()), chi.URLParam(r, "id"), req.contact(), attribution)
		if errors.Is(err, core.ErrInvalidContact) {
			// inline field errors are a normal form state
			render.JSON(w, r, response.ErrorWith("Verifique os dados informados", res))
			return
		}
		if err != nil {
			fail(w, r, logger, err)
			return
		}

		logger.Info("lead submitted", slog.String("destination", res.Destination))
		render.JSON(w, r, response.Ok(res))
	}
}

func cookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
