package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/salu-0/rubbereco-api/internal/application/notify"
	"github.com/salu-0/rubbereco-api/internal/domain"
)

// StreamHandler bridges the in-process subscriptions onto SSE so the
// dashboard reacts to mutations without polling. Each connection holds one
// subscription, released when the client disconnects.
type StreamHandler struct {
	store *notify.Store
	bus   *notify.HandoffBus
}

func NewStreamHandler(store *notify.Store, bus *notify.HandoffBus) *StreamHandler {
	return &StreamHandler{store: store, bus: bus}
}

// Notifications streams {records, unread_count} snapshots: one event primes
// the client, then one per store mutation.
func (h *StreamHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	flusher, ok := sseHeaders(w)
	if !ok {
		return
	}

	// Buffered so a slow client cannot stall the store's synchronous fan-out;
	// a full buffer drops intermediate snapshots, the client catches up on the next one.
	events := make(chan notify.Snapshot, 8)
	unsubscribe := h.store.Subscribe(func(s notify.Snapshot) {
		select {
		case events <- s:
		default:
		}
	})
	defer unsubscribe()

	writeEvent(w, flusher, notify.Snapshot{Records: h.store.All(), UnreadCount: h.store.UnreadCount()})

	for {
		select {
		case <-r.Context().Done():
			return
		case s := <-events:
			writeEvent(w, flusher, s)
		}
	}
}

// Handoffs streams assignment handoffs published by the dispatcher.
func (h *StreamHandler) Handoffs(w http.ResponseWriter, r *http.Request) {
	flusher, ok := sseHeaders(w)
	if !ok {
		return
	}

	events := make(chan domain.AssignmentHandoff, 8)
	unsubscribe := h.bus.Subscribe(func(hnd domain.AssignmentHandoff) {
		select {
		case events <- hnd:
		default:
		}
	})
	defer unsubscribe()

	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case hnd := <-events:
			writeEvent(w, flusher, hnd)
		}
	}
}

func sseHeaders(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return flusher, true
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
