// Package notify implements the notification subsystem: the durable record
// store, the ephemeral pending-work projection, the merged feed and the
// action dispatcher.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/salu-0/rubbereco-api/internal/domain"
	"github.com/salu-0/rubbereco-api/internal/infrastructure/snapshot"
	"github.com/salu-0/rubbereco-api/internal/pkg/id"
)

// Snapshot is the state handed to subscribers after every mutation.
type Snapshot struct {
	Records     []domain.Notification `json:"records"`
	UnreadCount int                   `json:"unread_count"`
}

// Listener receives the post-mutation snapshot. Invocation is synchronous:
// by the time a mutating call returns, every listener has seen the new state.
type Listener func(Snapshot)

// Store is the single source of truth for durable notification records.
// All mutation goes through its methods (single-writer discipline); the
// snapshot backend mirrors the full collection, best-effort. A nil snapshot
// store yields a memory-only instance, which tests use directly.
type Store struct {
	mu      sync.Mutex
	records []domain.Notification
	subs    map[int]Listener
	nextSub int
	snap    snapshot.Store
}

// NewStore loads persisted state once and returns a ready store. A missing,
// corrupt or unreadable blob is treated as an empty collection.
func NewStore(ctx context.Context, snap snapshot.Store) *Store {
	s := &Store{subs: make(map[int]Listener), snap: snap}
	if snap == nil {
		return s
	}
	data, err := snap.Load(ctx, snapshot.KeyNotifications)
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			slog.Warn("could not load notification snapshot, starting empty", "err", err)
		}
		return s
	}
	var records []domain.Notification
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("corrupt notification snapshot, starting empty", "err", err)
		return s
	}
	s.records = records
	return s
}

// add assigns identity and timestamps, prepends the record (newest first),
// persists and fans out. Called only by the per-kind factories.
func (s *Store) add(ctx context.Context, n domain.Notification) domain.Notification {
	s.mu.Lock()
	n.ID = id.New()
	n.Timestamp = time.Now().UTC()
	n.Read = false
	s.records = append([]domain.Notification{n}, s.records...)
	s.persistLocked(ctx)
	snap, listeners := s.fanoutLocked()
	s.mu.Unlock()

	notifyAll(listeners, snap)
	return n
}

// All returns the current collection, newest first.
func (s *Store) All() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Get returns the record with the given id, if present.
func (s *Store) Get(notificationID string) (domain.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.records {
		if n.ID == notificationID {
			return n, true
		}
	}
	return domain.Notification{}, false
}

// UnreadCount reports how many records are still unread.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadLocked()
}

// ByType returns records of the given type, newest first.
func (s *Store) ByType(t domain.NotificationType) []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, n := range s.records {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// Recent returns records created within the given window.
func (s *Store) Recent(window time.Duration) []domain.Notification {
	cutoff := time.Now().Add(-window)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, n := range s.records {
		if n.Timestamp.After(cutoff) {
			out = append(out, n)
		}
	}
	return out
}

// HighPriorityUnread returns unread records with high priority.
func (s *Store) HighPriorityUnread() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, n := range s.records {
		if !n.Read && n.Priority == domain.PriorityHigh {
			out = append(out, n)
		}
	}
	return out
}

// MarkAsRead flips the record to read. Unknown ids are a silent no-op.
func (s *Store) MarkAsRead(ctx context.Context, notificationID string) {
	s.mu.Lock()
	changed := false
	for i := range s.records {
		if s.records[i].ID == notificationID {
			if !s.records[i].Read {
				s.records[i].Read = true
				changed = true
			}
			break
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	s.persistLocked(ctx)
	snap, listeners := s.fanoutLocked()
	s.mu.Unlock()

	notifyAll(listeners, snap)
}

// MarkAllAsRead flips every record to read, persisting and notifying once.
func (s *Store) MarkAllAsRead(ctx context.Context) {
	s.mu.Lock()
	for i := range s.records {
		s.records[i].Read = true
	}
	s.persistLocked(ctx)
	snap, listeners := s.fanoutLocked()
	s.mu.Unlock()

	notifyAll(listeners, snap)
}

// Delete removes the record with the given id. Unknown ids are a silent no-op.
func (s *Store) Delete(ctx context.Context, notificationID string) {
	s.mu.Lock()
	idx := -1
	for i := range s.records {
		if s.records[i].ID == notificationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	s.persistLocked(ctx)
	snap, listeners := s.fanoutLocked()
	s.mu.Unlock()

	notifyAll(listeners, snap)
}

// Clear empties the collection.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.records = nil
	s.persistLocked(ctx)
	snap, listeners := s.fanoutLocked()
	s.mu.Unlock()

	notifyAll(listeners, snap)
}

// Subscribe registers a listener invoked on every mutation. The returned
// function deregisters it; calling it more than once is safe.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subs[key] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, key)
		s.mu.Unlock()
	}
}

// persistLocked mirrors the collection to the snapshot backend. Failures are
// logged and swallowed: the in-memory mutation and the fan-out must proceed
// even when durability is lost.
func (s *Store) persistLocked(ctx context.Context) {
	if s.snap == nil {
		return
	}
	data, err := json.Marshal(s.records)
	if err != nil {
		slog.Warn("could not serialize notifications", "err", err)
		return
	}
	if err := s.snap.Save(ctx, snapshot.KeyNotifications, data); err != nil {
		slog.Warn("could not persist notifications", "count", len(s.records), "err", err)
	}
}

// fanoutLocked captures the post-mutation snapshot and the listener set.
// Listeners are invoked after the lock is released so they may call back
// into the store without deadlocking.
func (s *Store) fanoutLocked() (Snapshot, []Listener) {
	snap := Snapshot{Records: s.copyLocked(), UnreadCount: s.unreadLocked()}
	listeners := make([]Listener, 0, len(s.subs))
	for _, l := range s.subs {
		listeners = append(listeners, l)
	}
	return snap, listeners
}

func (s *Store) copyLocked() []domain.Notification {
	out := make([]domain.Notification, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) unreadLocked() int {
	count := 0
	for _, n := range s.records {
		if !n.Read {
			count++
		}
	}
	return count
}

func notifyAll(listeners []Listener, snap Snapshot) {
	for _, l := range listeners {
		l(snap)
	}
}
