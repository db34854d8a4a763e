package handler

import (
	"net/http"
	"strconv"

	"github.com/salu-0/rubbereco-api/internal/application/notify"
)

// FeedHandler serves the merged ephemeral+durable feed with tab counts.
type FeedHandler struct {
	store *notify.Store
}

func NewFeedHandler(store *notify.Store) *FeedHandler {
	return &FeedHandler{store: store}
}

// Get builds the feed for the requested filter and pending counters:
// GET /feed?filter=unread&pending_staff=2&pending_tapping=0&pending_land=1
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	filter, err := notify.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		httpError(w, err)
		return
	}
	counts, ok := parsePendingCounts(w, r)
	if !ok {
		return
	}
	feed := notify.BuildFeed(h.store.All(), h.store.UnreadCount(), counts, filter)
	writeJSON(w, http.StatusOK, FeedEnvelope{Records: feed.Records, Counts: feed.Counts})
}

func parsePendingCounts(w http.ResponseWriter, r *http.Request) (notify.PendingCounts, bool) {
	var counts notify.PendingCounts
	for _, f := range []struct {
		param string
		dst   *int
	}{
		{"pending_staff", &counts.StaffApplications},
		{"pending_tapping", &counts.TappingRequests},
		{"pending_land", &counts.LandRegistrations},
	} {
		v := r.URL.Query().Get(f.param)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, f.param+" must be a non-negative integer")
			return notify.PendingCounts{}, false
		}
		*f.dst = n
	}
	return counts, true
}
