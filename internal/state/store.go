package state

import (
	"log/slog"
	"sync"
)

// DefaultSubscriptionBuffer is the channel capacity used when Subscribe is
// given a non-positive size.
const DefaultSubscriptionBuffer = 16

// Store holds the current snapshot. Dispatch is serialized; Snapshot may be
// called from any goroutine.
type Store struct {
	logger *slog.Logger

	mu     sync.Mutex
	state  State
	subs   map[int]*Subscription
	nextID int
	closed bool
}

// Subscription receives every snapshot produced after it was created. A slow
// reader loses the oldest pending snapshot, never the newest.
type Subscription struct {
	C <-chan State

	ch    chan State
	id    int
	store *Store
}

// NewStore creates a store holding initial.
func NewStore(initial State, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		logger: logger,
		state:  initial,
		subs:   make(map[int]*Subscription),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a into the current state, publishes the result, and
// returns it.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Reduce(s.state, a)
	next.Version = s.state.Version + 1
	s.state = next

	s.logger.Debug("state dispatch",
		slog.String("action", a.Kind()),
		slog.Uint64("version", next.Version),
		slog.String("phase", string(next.Phase)))

	for _, sub := range s.subs {
		sub.publish(next, s.logger)
	}
	return next
}

// Subscribe registers a subscriber with the given channel buffer.
func (s *Store) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultSubscriptionBuffer
	}
	ch := make(chan State, buffer)
	sub := &Subscription{C: ch, ch: ch, store: s}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return sub
	}
	s.nextID++
	sub.id = s.nextID
	s.subs[sub.id] = sub
	return sub
}

// Close unregisters every subscriber and closes their channels.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, sub := range s.subs {
		close(sub.ch)
		delete(s.subs, id)
	}
}

// publish must be called with the store lock held.
func (sub *Subscription) publish(st State, logger *slog.Logger) {
	select {
	case sub.ch <- st:
		return
	default:
	}

	// Full: drop the oldest pending snapshot to make room.
	select {
	case <-sub.ch:
		logger.Debug("dropped stale snapshot for slow subscriber", slog.Int("subscriber", sub.id))
	default:
	}
	select {
	case sub.ch <- st:
	default:
	}
}

// Close stops delivery and closes C. Safe to call more than once.
func (sub *Subscription) Close() {
	s := sub.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.id]; !ok {
		return
	}
	delete(s.subs, sub.id)
	close(sub.ch)
}
