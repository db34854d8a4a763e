package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/salu-0/rubbereco-api/internal/application/notify"
	"github.com/salu-0/rubbereco-api/internal/domain"
)

// NotificationHandler handles the store's read and mutation endpoints.
type NotificationHandler struct {
	store *notify.Store
}

func NewNotificationHandler(store *notify.Store) *NotificationHandler {
	return &NotificationHandler{store: store}
}

// List returns all durable records, optionally filtered by ?type=.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if t := r.URL.Query().Get("type"); t != "" {
		writeJSON(w, http.StatusOK, h.store.ByType(domain.NotificationType(t)))
		return
	}
	writeJSON(w, http.StatusOK, h.store.All())
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CountEnvelope{Count: h.store.UnreadCount()})
}

// Recent returns records created within the last ?hours= (default 24).
func (h *NotificationHandler) Recent(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if v := r.URL.Query().Get("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "hours must be a positive integer")
			return
		}
		hours = n
	}
	writeJSON(w, http.StatusOK, h.store.Recent(time.Duration(hours)*time.Hour))
}

func (h *NotificationHandler) HighPriorityUnread(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.HighPriorityUnread())
}

func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		httpError(w, fmt.Errorf("notification: %w", domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// MarkAsRead is idempotent: unknown ids succeed without effect.
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	h.store.MarkAsRead(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	h.store.MarkAllAsRead(r.Context())
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "all marked as read"})
}

// Delete is idempotent: unknown ids succeed without effect.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "deleted"})
}

func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(r.Context())
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "cleared"})
}
