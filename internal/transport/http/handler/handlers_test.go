package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/salu-0/rubbereco-api/internal/application/notify"
	"github.com/salu-0/rubbereco-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRouter wires the handlers against a memory-only store, the way the
// real router does minus auth and rate limiting.
func testRouter(t *testing.T) (*chi.Mux, *notify.Store) {
	t.Helper()
	store := notify.NewStore(context.Background(), nil)
	bus := notify.NewHandoffBus()
	dispatcher := notify.NewDispatcher(store, bus, nil, nil, nil)

	producerH := NewProducerHandler(store)
	notifH := NewNotificationHandler(store)
	feedH := NewFeedHandler(store)
	dispatchH := NewDispatchHandler(store, dispatcher)

	r := chi.NewRouter()
	r.Post("/notifications/tapper-requests", producerH.TapperRequest)
	r.Post("/notifications/leave-requests", producerH.LeaveRequest)
	r.Get("/feed", feedH.Get)
	r.Get("/notifications", notifH.List)
	r.Get("/notifications/unread-count", notifH.UnreadCount)
	r.Get("/notifications/{id}", notifH.Get)
	r.Put("/notifications/read-all", notifH.MarkAllAsRead)
	r.Put("/notifications/{id}/read", notifH.MarkAsRead)
	r.Delete("/notifications/{id}", notifH.Delete)
	r.Post("/notifications/{id}/dispatch", dispatchH.Dispatch)
	return r, store
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func tapperBody() map[string]interface{} {
	return map[string]interface{}{
		"originator": map[string]string{
			"name":  "Suresh",
			"email": "suresh@farm.example",
			"phone": "+919876543210",
		},
		"farm_location":   "Kottayam",
		"number_of_trees": 500,
	}
}

func TestProducer_TapperRequest_Created(t *testing.T) {
	r, store := testRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/notifications/tapper-requests", tapperBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.TypeTapperRequest, created.Type)
	assert.Contains(t, created.Message, "500 trees")

	assert.Equal(t, 1, store.UnreadCount())
}

func TestProducer_MissingOriginatorName_BadRequest(t *testing.T) {
	r, store := testRouter(t)

	body := tapperBody()
	body["originator"] = map[string]string{"email": "anon@farm.example"}
	rec := doJSON(t, r, http.MethodPost, "/notifications/tapper-requests", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, store.UnreadCount())
}

func TestFeed_MergesEphemeralAndDurable(t *testing.T) {
	r, store := testRouter(t)
	store.AddTapperRequest(context.Background(), domain.Payload{Originator: domain.Contact{Name: "Suresh"}})

	rec := doJSON(t, r, http.MethodGet, "/feed?filter=all&pending_staff=2&pending_land=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env FeedEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Records, 3)
	assert.Equal(t, notify.EphemeralStaffID, env.Records[0].ID)
	assert.Equal(t, notify.EphemeralLandID, env.Records[1].ID)
	assert.Equal(t, 3, env.Counts[notify.FilterAll])
	assert.Equal(t, 4, env.Counts[notify.FilterUnread]) // 1 durable + 3 pending
}

func TestFeed_UnknownFilter_BadRequest(t *testing.T) {
	r, _ := testRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/feed?filter=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeed_NegativeCounter_BadRequest(t *testing.T) {
	r, _ := testRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/feed?pending_staff=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGet_UnknownID_NotFound(t *testing.T) {
	r, _ := testRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/notifications/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkAsRead_UnknownID_StillOK(t *testing.T) {
	r, _ := testRouter(t)
	rec := doJSON(t, r, http.MethodPut, "/notifications/no-such-id/read", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadAll_ThenUnreadCountZero(t *testing.T) {
	r, store := testRouter(t)
	ctx := context.Background()
	store.AddTapperRequest(ctx, domain.Payload{Originator: domain.Contact{Name: "a"}})
	store.AddTapperRequest(ctx, domain.Payload{Originator: domain.Contact{Name: "b"}})

	rec := doJSON(t, r, http.MethodPut, "/notifications/read-all", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/notifications/unread-count", nil)
	var count CountEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, 0, count.Count)
}

func TestDelete_Idempotent(t *testing.T) {
	r, store := testRouter(t)
	n := store.AddTapperRequest(context.Background(), domain.Payload{Originator: domain.Contact{Name: "a"}})

	rec := doJSON(t, r, http.MethodDelete, "/notifications/"+n.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, r, http.MethodDelete, "/notifications/"+n.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.All())
}

func TestDispatch_ContactCall_ReturnsURI(t *testing.T) {
	r, store := testRouter(t)
	n := store.AddTapperRequest(context.Background(), domain.Payload{
		Originator: domain.Contact{Name: "Suresh", Phone: "+919876543210"},
	})

	rec := doJSON(t, r, http.MethodPost, "/notifications/"+n.ID+"/dispatch",
		map[string]string{"action": "contact", "channel": "call"})
	require.Equal(t, http.StatusOK, rec.Code)

	var env DispatchEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "tel:+919876543210", env.ContactURI)

	got, _ := store.Get(n.ID)
	assert.True(t, got.Read)
}

func TestDispatch_UnknownAction_BadRequest(t *testing.T) {
	r, store := testRouter(t)
	n := store.AddTapperRequest(context.Background(), domain.Payload{Originator: domain.Contact{Name: "a"}})

	rec := doJSON(t, r, http.MethodPost, "/notifications/"+n.ID+"/dispatch",
		map[string]string{"action": "explode"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDispatch_UnknownID_NotFound(t *testing.T) {
	r, _ := testRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/notifications/nope/dispatch",
		map[string]string{"action": "view"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatch_LeaveRequest_AssignUndeclared_BadRequest(t *testing.T) {
	r, store := testRouter(t)
	n := store.AddLeaveRequest(context.Background(), domain.Payload{Originator: domain.Contact{Name: "staffer"}})

	rec := doJSON(t, r, http.MethodPost, "/notifications/"+n.ID+"/dispatch",
		map[string]string{"action": "assign"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
