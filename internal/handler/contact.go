package handler

import (
	"errors"
	"log"
	"net/http"

	"jumewears/internal/flash"
	"jumewears/internal/httputil"
	"jumewears/internal/model"
	"jumewears/internal/service"
)

type ContactHandler struct {
	contactService *service.ContactService
	flashes        *flash.Codec
}

func NewContactHandler(contactService *service.ContactService, flashes *flash.Codec) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		flashes:        flashes,
	}
}

// Submit handles POST /contact/
// Queues the notification email and sets a flash the next page render picks
// up. The response never waits on SMTP.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.ContactRequest{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	}

	err := h.contactService.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrContactFieldsRequired) {
			h.flashes.Set(w, flash.Message{Kind: flash.KindError, Text: "Please fill in every field."})
			httputil.WriteDetail(w, http.StatusBadRequest, "All fields are required.")
			return
		}
		log.Printf("[ERROR] Contact submit handler: err=%v", err)
		h.flashes.Set(w, flash.Message{Kind: flash.KindError, Text: "Something went wrong, please try again."})
		httputil.WriteInternalError(w, "Failed to send message")
		return
	}

	h.flashes.Set(w, flash.Message{Kind: flash.KindSuccess, Text: "Thanks for reaching out. We will get back to you soon."})
	w.WriteHeader(http.StatusNoContent)
}

// Flash handles GET /flash
// The page script fetches this after a reload to show the pending one-shot
// message. Reading clears it; 204 when there is none.
func (h *ContactHandler) Flash(w http.ResponseWriter, r *http.Request) {
	m := h.flashes.Take(w, r)
	if m == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}
