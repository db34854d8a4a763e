package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/salu-0/rubbereco-api/internal/application/notify"
	"github.com/salu-0/rubbereco-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CountEnvelope wraps scalar count responses.
type CountEnvelope struct {
	Count int `json:"count"`
}

// FeedEnvelope wraps the merged feed response.
type FeedEnvelope struct {
	Records []domain.Notification `json:"records"`
	Counts  map[notify.Filter]int `json:"counts"`
}

// DispatchEnvelope wraps the outcome of an action dispatch.
type DispatchEnvelope struct {
	Handoff    *domain.AssignmentHandoff `json:"handoff,omitempty"`
	ContactURI string                    `json:"contact_uri,omitempty"`
	Delivered  bool                      `json:"delivered"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
