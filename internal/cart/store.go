package cart

import (
	"sync"
	"time"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
)

// Snapshot is the published view of one user's cart after a mutation.
// Subscribers treat it as a change signal and re-fetch through the aggregator
// rather than trusting the pushed payload.
type Snapshot struct {
	UserID    int64
	Lines     []domain.CartLine
	Totals    domain.CartTotals
	Revision  uint64
	UpdatedAt time.Time
}

// Store is an observable snapshot store. Every cart mutation publishes a
// snapshot; all subscribers observe snapshots in publication order.
type Store struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Snapshot
	latest map[int64]Snapshot
	rev    uint64
	now    func() time.Time
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		subs:   make(map[int]chan Snapshot),
		latest: make(map[int64]Snapshot),
		now:    time.Now,
	}
}

const subscriberBuffer = 16

// Subscribe registers an observer. The returned cancel func must be called
// when the observer unmounts; afterwards the channel is closed and no further
// snapshots arrive.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, subscriberBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish records the cart state for userID and fans it out. Sends are
// non-blocking: a subscriber that stopped draining misses intermediate
// snapshots but can always recover via Latest and a re-fetch.
func (s *Store) Publish(userID int64, lines []domain.CartLine) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rev++
	snap := Snapshot{
		UserID:    userID,
		Lines:     append([]domain.CartLine(nil), lines...),
		Totals:    Totals(lines),
		Revision:  s.rev,
		UpdatedAt: s.now().UTC(),
	}
	s.latest[userID] = snap

	for _, sub := range s.subs {
		select {
		case sub <- snap:
		default:
		}
	}
	return snap
}

// Latest returns the most recently published snapshot for a user.
func (s *Store) Latest(userID int64) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.latest[userID]
	return snap, ok
}
