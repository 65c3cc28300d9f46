package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
)

func TestStorePublishNotifiesSubscribers(t *testing.T) {
	store := NewStore()
	ch, cancel := store.Subscribe()
	defer cancel()

	store.Publish(7, []domain.CartLine{line(1, 100, 2)})

	select {
	case snap := <-ch:
		if snap.UserID != 7 {
			t.Fatalf("expected user 7, got %d", snap.UserID)
		}
		if snap.Totals.TotalItems != 2 {
			t.Fatalf("expected 2 items, got %d", snap.Totals.TotalItems)
		}
		if !snap.Totals.ItemsTotal.Equal(decimal.NewFromInt(200)) {
			t.Fatalf("expected total 200, got %s", snap.Totals.ItemsTotal)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for snapshot")
	}
}

func TestStoreRevisionIncreasesMonotonically(t *testing.T) {
	store := NewStore()

	first := store.Publish(7, []domain.CartLine{line(1, 100, 1)})
	second := store.Publish(7, []domain.CartLine{line(1, 100, 2)})

	if second.Revision <= first.Revision {
		t.Fatalf("expected revision to increase, got %d then %d", first.Revision, second.Revision)
	}
}

func TestStoreLatestReturnsLastSnapshot(t *testing.T) {
	store := NewStore()

	if _, ok := store.Latest(7); ok {
		t.Fatalf("expected no snapshot before publish")
	}

	store.Publish(7, []domain.CartLine{line(1, 100, 1)})
	store.Publish(7, nil)

	snap, ok := store.Latest(7)
	if !ok {
		t.Fatalf("expected a snapshot")
	}
	if len(snap.Lines) != 0 {
		t.Fatalf("expected latest snapshot to be empty, got %+v", snap.Lines)
	}
}

func TestStoreSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	store := NewStore()
	_, cancel := store.Subscribe()
	defer cancel()

	// Never drain the channel; publishing past the buffer must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			store.Publish(7, []domain.CartLine{line(1, 100, i + 1)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on slow subscriber")
	}
}

func TestStoreCancelStopsDelivery(t *testing.T) {
	store := NewStore()
	ch, cancel := store.Subscribe()
	cancel()

	store.Publish(7, []domain.CartLine{line(1, 100, 1)})

	select {
	case _, open := <-ch:
		if open {
			t.Fatalf("expected channel to be closed after cancel")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected closed channel read to return immediately")
	}
}
