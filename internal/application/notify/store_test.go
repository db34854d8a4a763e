package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/salu-0/rubbereco-api/internal/domain"
	"github.com/salu-0/rubbereco-api/internal/infrastructure/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSnapshotStore struct{ mock.Mock }

func (m *mockSnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if b, _ := args.Get(0).([]byte); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	return m.Called(ctx, key, data).Error(0)
}

// --- helpers ---

func memStore() *Store {
	return NewStore(context.Background(), nil)
}

func payload(name string) domain.Payload {
	return domain.Payload{
		Originator:    domain.Contact{Name: name, Email: name + "@farm.example", Phone: "+911234567890"},
		FarmLocation:  "Kottayam",
		NumberOfTrees: 500,
	}
}

// --- tests ---

func TestAdd_AssignsUniqueIDs(t *testing.T) {
	s := memStore()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := s.AddTapperRequest(ctx, payload("farmer"))
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
	assert.Len(t, s.All(), 50)
}

func TestAdd_NewestFirst(t *testing.T) {
	s := memStore()
	ctx := context.Background()

	a := s.AddTapperRequest(ctx, payload("first"))
	b := s.AddLandLease(ctx, payload("second"))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)
	assert.Equal(t, a.ID, all[1].ID)
}

func TestAdd_SetsDefaults(t *testing.T) {
	s := memStore()
	n := s.AddTapperRequest(context.Background(), payload("farmer"))

	assert.False(t, n.Read)
	assert.Equal(t, domain.TypeTapperRequest, n.Type)
	assert.Equal(t, domain.PriorityHigh, n.Priority)
	assert.WithinDuration(t, time.Now(), n.Timestamp, 2*time.Second)
	assert.NotEmpty(t, n.Actions)
}

func TestMarkAsRead_Monotonic(t *testing.T) {
	s := memStore()
	ctx := context.Background()
	n := s.AddTapperRequest(ctx, payload("farmer"))

	s.MarkAsRead(ctx, n.ID)
	got, ok := s.Get(n.ID)
	require.True(t, ok)
	assert.True(t, got.Read)

	// Stays read on subsequent reads.
	got, _ = s.Get(n.ID)
	assert.True(t, got.Read)
}

func TestMarkAsRead_Idempotent(t *testing.T) {
	s := memStore()
	ctx := context.Background()
	n := s.AddTapperRequest(ctx, payload("farmer"))

	notifications := 0
	defer s.Subscribe(func(Snapshot) { notifications++ })()

	s.MarkAsRead(ctx, n.ID)
	s.MarkAsRead(ctx, n.ID)

	assert.Equal(t, 0, s.UnreadCount())
	// The second call changed nothing, so it did not notify.
	assert.Equal(t, 1, notifications)
}

func TestMarkAsRead_UnknownID_NoOp(t *testing.T) {
	s := memStore()
	ctx := context.Background()
	s.AddTapperRequest(ctx, payload("farmer"))

	assert.NotPanics(t, func() { s.MarkAsRead(ctx, "no-such-id") })
	assert.Equal(t, 1, s.UnreadCount())
}

func TestUnreadCount_MatchesRecords(t *testing.T) {
	s := memStore()
	ctx := context.Background()

	a := s.AddTapperRequest(ctx, payload("a"))
	s.AddLandLease(ctx, payload("b"))
	s.AddServiceRequest(ctx, payload("c"))

	check := func() {
		unread := 0
		for _, n := range s.All() {
			if !n.Read {
				unread++
			}
		}
		assert.Equal(t, unread, s.UnreadCount())
	}

	check()
	s.MarkAsRead(ctx, a.ID)
	check()
	s.MarkAllAsRead(ctx)
	check()
	assert.Equal(t, 0, s.UnreadCount())
}

func TestMarkAllAsRead_Scenario(t *testing.T) {
	s := memStore()
	ctx := context.Background()

	s.AddTapperRequest(ctx, payload("farmer"))
	assert.Equal(t, 1, s.UnreadCount())

	s.MarkAllAsRead(ctx)
	assert.Equal(t, 0, s.UnreadCount())
}

func TestDelete_RemovesRecord(t *testing.T) {
	s := memStore()
	ctx := context.Background()
	a := s.AddTapperRequest(ctx, payload("a"))
	b := s.AddTapperRequest(ctx, payload("b"))

	s.Delete(ctx, a.ID)

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
	_, ok := s.Get(a.ID)
	assert.False(t, ok)
}

func TestDelete_UnknownID_NoOp(t *testing.T) {
	s := memStore()
	ctx := context.Background()
	s.AddTapperRequest(ctx, payload("a"))

	assert.NotPanics(t, func() { s.Delete(ctx, "no-such-id") })
	assert.Len(t, s.All(), 1)
}

func TestClear_EmptiesCollection(t *testing.T) {
	s := memStore()
	ctx := context.Background()
	s.AddTapperRequest(ctx, payload("a"))
	s.AddLandLease(ctx, payload("b"))

	s.Clear(ctx)
	assert.Empty(t, s.All())
	assert.Equal(t, 0, s.UnreadCount())
}

func TestSubscribe_TwoListeners_BothNotifiedOnce(t *testing.T) {
	s := memStore()
	ctx := context.Background()

	var first, second []Snapshot
	defer s.Subscribe(func(snap Snapshot) { first = append(first, snap) })()
	defer s.Subscribe(func(snap Snapshot) { second = append(second, snap) })()

	s.AddTapperRequest(ctx, payload("farmer"))

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].UnreadCount, second[0].UnreadCount)
	assert.Equal(t, first[0].Records, second[0].Records)
	assert.Equal(t, 1, first[0].UnreadCount)
}

func TestUnsubscribe_DoesNotAffectOthers(t *testing.T) {
	s := memStore()
	ctx := context.Background()

	calls1, calls2 := 0, 0
	cancel1 := s.Subscribe(func(Snapshot) { calls1++ })
	defer s.Subscribe(func(Snapshot) { calls2++ })()

	s.AddTapperRequest(ctx, payload("a"))
	cancel1()
	cancel1() // safe to call twice
	s.AddTapperRequest(ctx, payload("b"))

	assert.Equal(t, 1, calls1)
	assert.Equal(t, 2, calls2)
}

func TestSubscriber_SeesConsistentSnapshot(t *testing.T) {
	s := memStore()
	ctx := context.Background()

	defer s.Subscribe(func(snap Snapshot) {
		unread := 0
		for _, n := range snap.Records {
			if !n.Read {
				unread++
			}
		}
		assert.Equal(t, unread, snap.UnreadCount)
	})()

	n := s.AddTapperRequest(ctx, payload("a"))
	s.AddLandLease(ctx, payload("b"))
	s.MarkAsRead(ctx, n.ID)
	s.MarkAllAsRead(ctx)
	s.Clear(ctx)
}

func TestPersistenceFailure_MutationStillApplies(t *testing.T) {
	snap := &mockSnapshotStore{}
	snap.On("Load", mock.Anything, snapshot.KeyNotifications).Return(nil, snapshot.ErrNotFound)
	snap.On("Save", mock.Anything, snapshot.KeyNotifications, mock.Anything).Return(errors.New("quota exceeded"))

	s := NewStore(context.Background(), snap)

	notified := 0
	defer s.Subscribe(func(Snapshot) { notified++ })()

	n := s.AddTapperRequest(context.Background(), payload("farmer"))

	// The write failed, but the record exists and subscribers were told.
	_, ok := s.Get(n.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, notified)
	snap.AssertExpectations(t)
}

func TestNewStore_CorruptSnapshot_StartsEmpty(t *testing.T) {
	snap := &mockSnapshotStore{}
	snap.On("Load", mock.Anything, snapshot.KeyNotifications).Return([]byte("{not json"), nil)

	s := NewStore(context.Background(), snap)
	assert.Empty(t, s.All())
}

func TestRoundTrip_FileSnapshot(t *testing.T) {
	ctx := context.Background()
	fs, err := snapshot.NewFileStore(t.TempDir())
	require.NoError(t, err)

	s := NewStore(ctx, fs)
	a := s.AddTapperRequest(ctx, payload("farmer"))
	s.AddLandLease(ctx, payload("owner"))
	s.MarkAsRead(ctx, a.ID)

	reloaded := NewStore(ctx, fs)
	assert.Equal(t, s.All(), reloaded.All())
	assert.Equal(t, s.UnreadCount(), reloaded.UnreadCount())
}

func TestByType(t *testing.T) {
	s := memStore()
	ctx := context.Background()
	s.AddTapperRequest(ctx, payload("a"))
	s.AddLandLease(ctx, payload("b"))
	s.AddTapperRequest(ctx, payload("c"))

	tappers := s.ByType(domain.TypeTapperRequest)
	require.Len(t, tappers, 2)
	for _, n := range tappers {
		assert.Equal(t, domain.TypeTapperRequest, n.Type)
	}
}

func TestRecent_ExcludesOldRecords(t *testing.T) {
	s := memStore()
	ctx := context.Background()
	s.AddTapperRequest(ctx, payload("fresh"))

	assert.Len(t, s.Recent(24*time.Hour), 1)
	// A window ending before now excludes even a freshly written record.
	assert.Empty(t, s.Recent(-time.Second))
}

func TestHighPriorityUnread(t *testing.T) {
	s := memStore()
	ctx := context.Background()

	high := s.AddTapperRequest(ctx, payload("a")) // always high
	s.AddLandLease(ctx, payload("b"))             // normal

	got := s.HighPriorityUnread()
	require.Len(t, got, 1)
	assert.Equal(t, high.ID, got[0].ID)

	s.MarkAsRead(ctx, high.ID)
	assert.Empty(t, s.HighPriorityUnread())
}
