package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/salu-0/rubbereco-api/internal/application/notify"
	"github.com/salu-0/rubbereco-api/internal/domain"
	"github.com/salu-0/rubbereco-api/internal/pkg/validate"
)

// DispatchHandler resolves a chosen action on a notification.
type DispatchHandler struct {
	store      *notify.Store
	dispatcher *notify.Dispatcher
}

func NewDispatchHandler(store *notify.Store, dispatcher *notify.Dispatcher) *DispatchHandler {
	return &DispatchHandler{store: store, dispatcher: dispatcher}
}

type dispatchBody struct {
	Action  string `json:"action" validate:"required,oneof=assign contact view"`
	Channel string `json:"channel" validate:"omitempty,oneof=call email sms"`
}

// Dispatch executes POST /notifications/{id}/dispatch with {action, channel}.
func (h *DispatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var body dispatchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		httpError(w, fmt.Errorf("notification: %w", domain.ErrNotFound))
		return
	}

	res, err := h.dispatcher.Dispatch(r.Context(), rec,
		domain.ActionKind(body.Action), domain.ContactChannel(body.Channel))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DispatchEnvelope{
		Handoff:    res.Handoff,
		ContactURI: res.ContactURI,
		Delivered:  res.Delivered,
	})
}

// LatestHandoff serves the persisted handoff slot for late-mounting views.
func (h *DispatchHandler) LatestHandoff(w http.ResponseWriter, r *http.Request) {
	handoff, err := h.dispatcher.LatestHandoff(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, handoff)
}
