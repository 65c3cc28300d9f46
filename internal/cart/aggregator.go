// Package cart mirrors the backend cart store on the client side. The
// backend is the single writer of truth; the aggregator holds a read-through
// cached copy per user and publishes a snapshot after every mutation.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/it23631960/pearl-logistics-user/internal/backend"
	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/session"
)

var (
	// ErrInvalidQuantity indicates a quantity below one.
	ErrInvalidQuantity = errors.New("cart: quantity must be a positive integer")

	errBackendRequired = errors.New("cart: backend client is required")
)

// Backend is the slice of the REST client the aggregator depends on.
type Backend interface {
	FetchCart(ctx context.Context, token string, userID int64) (domain.Cart, error)
	AddItem(ctx context.Context, token string, userID, itemID int64, quantity int) error
	UpdateItem(ctx context.Context, token string, userID, itemID int64, quantity int) (domain.CartLine, error)
	RemoveItem(ctx context.Context, token string, userID, itemID int64) error
	ClearCart(ctx context.Context, token string, userID int64) error
}

// AggregatorDeps wires the aggregator's collaborators.
type AggregatorDeps struct {
	Backend Backend
	Store   *Store
	Logger  *zap.Logger
}

// Aggregator owns cart reads and mutations for all sessions of this process.
type Aggregator struct {
	backend Backend
	store   *Store
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[int64][]domain.CartLine
}

// NewAggregator constructs an Aggregator, validating required dependencies.
func NewAggregator(deps AggregatorDeps) (*Aggregator, error) {
	if deps.Backend == nil {
		return nil, errBackendRequired
	}
	store := deps.Store
	if store == nil {
		store = NewStore()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		backend: deps.Backend,
		store:   store,
		logger:  logger,
		cache:   make(map[int64][]domain.CartLine),
	}, nil
}

// Store exposes the observable snapshot store for views to subscribe to.
func (a *Aggregator) Store() *Store {
	return a.store
}

// Totals derives the aggregate view of a set of lines. It is pure and holds
// for any ordering of lines.
func Totals(lines []domain.CartLine) domain.CartTotals {
	totals := domain.CartTotals{ItemsTotal: decimal.Zero}
	for _, line := range lines {
		totals.TotalItems += line.Quantity
		totals.ItemsTotal = totals.ItemsTotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return totals
}

// Fetch retrieves the authoritative cart, refreshing the cache. On failure
// the cached copy is emptied rather than left stale, and the error is
// surfaced as retryable.
func (a *Aggregator) Fetch(ctx context.Context, ident domain.Identity) (domain.Cart, error) {
	if !ident.Valid() {
		return domain.Cart{}, session.ErrNoIdentity
	}
	userID := ident.User.ID

	fetched, err := a.backend.FetchCart(ctx, ident.Token, userID)
	if err != nil {
		a.setLines(userID, nil)
		return domain.Cart{UserID: userID}, fmt.Errorf("cart: fetch: %w", err)
	}
	a.setLines(userID, fetched.Lines)
	return fetched, nil
}

// Add merges an item into the cart. The backend performs the dedup: adding an
// existing itemId increments its quantity rather than creating a second line.
// Local state is untouched when the call fails.
func (a *Aggregator) Add(ctx context.Context, ident domain.Identity, itemID int64, quantity int) (domain.Cart, error) {
	if !ident.Valid() {
		return domain.Cart{}, session.ErrNoIdentity
	}
	if quantity < 1 {
		return domain.Cart{}, ErrInvalidQuantity
	}
	userID := ident.User.ID

	if err := a.backend.AddItem(ctx, ident.Token, userID, itemID, quantity); err != nil {
		return domain.Cart{}, fmt.Errorf("cart: add item %d: %w", itemID, err)
	}

	// Re-fetch the authoritative cart so the merged quantities come from the
	// system of record.
	fetched, err := a.backend.FetchCart(ctx, ident.Token, userID)
	if err != nil {
		a.logger.Warn("cart refresh after add failed",
			zap.Int64("user_id", userID),
			zap.Int64("item_id", itemID),
			zap.Error(err))
		a.publish(userID, a.lines(userID))
		return domain.Cart{UserID: userID, Lines: a.lines(userID)}, nil
	}
	a.setLines(userID, fetched.Lines)
	return fetched, nil
}

// Remove deletes a line. The local copy is updated optimistically and rolled
// back if the backend rejects the delete; a failed delete never sticks.
func (a *Aggregator) Remove(ctx context.Context, ident domain.Identity, itemID int64) (domain.Cart, error) {
	if !ident.Valid() {
		return domain.Cart{}, session.ErrNoIdentity
	}
	userID := ident.User.ID

	previous := a.lines(userID)
	trimmed := make([]domain.CartLine, 0, len(previous))
	for _, line := range previous {
		if line.ItemID != itemID {
			trimmed = append(trimmed, line)
		}
	}
	a.swapLines(userID, trimmed)

	if err := a.backend.RemoveItem(ctx, ident.Token, userID, itemID); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			// Removing an id the backend no longer has leaves the cart as-is.
			a.swapLines(userID, previous)
			a.publish(userID, previous)
			return domain.Cart{UserID: userID, Lines: previous}, nil
		}
		a.swapLines(userID, previous)
		return domain.Cart{UserID: userID, Lines: previous}, fmt.Errorf("cart: remove item %d: %w", itemID, err)
	}

	a.publish(userID, trimmed)
	return domain.Cart{UserID: userID, Lines: trimmed}, nil
}

// SetQuantity updates a line's quantity. The change is strictly
// server-confirmed: the authoritative line returned by the backend replaces
// the local one, since the server may adjust pricing.
func (a *Aggregator) SetQuantity(ctx context.Context, ident domain.Identity, itemID int64, quantity int) (domain.Cart, error) {
	if !ident.Valid() {
		return domain.Cart{}, session.ErrNoIdentity
	}
	if quantity < 1 {
		return domain.Cart{}, ErrInvalidQuantity
	}
	userID := ident.User.ID

	updated, err := a.backend.UpdateItem(ctx, ident.Token, userID, itemID, quantity)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("cart: update item %d: %w", itemID, err)
	}

	lines := a.lines(userID)
	replaced := false
	for i := range lines {
		if lines[i].ItemID == updated.ItemID {
			lines[i] = updated
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, updated)
	}
	a.setLines(userID, lines)
	return domain.Cart{UserID: userID, Lines: lines}, nil
}

// Clear empties the cart. Used as the post-order-success step.
func (a *Aggregator) Clear(ctx context.Context, ident domain.Identity) error {
	if !ident.Valid() {
		return session.ErrNoIdentity
	}
	userID := ident.User.ID

	if err := a.backend.ClearCart(ctx, ident.Token, userID); err != nil {
		return fmt.Errorf("cart: clear: %w", err)
	}
	a.setLines(userID, nil)
	return nil
}

// Cached returns the last-known lines for a user without a network call.
func (a *Aggregator) Cached(userID int64) []domain.CartLine {
	return a.lines(userID)
}

func (a *Aggregator) lines(userID int64) []domain.CartLine {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]domain.CartLine(nil), a.cache[userID]...)
}

// swapLines replaces the cached copy without publishing, for optimistic
// updates that may still roll back.
func (a *Aggregator) swapLines(userID int64, lines []domain.CartLine) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache[userID] = append([]domain.CartLine(nil), lines...)
}

// setLines replaces the cached copy and publishes a snapshot.
func (a *Aggregator) setLines(userID int64, lines []domain.CartLine) {
	a.swapLines(userID, lines)
	a.publish(userID, lines)
}

func (a *Aggregator) publish(userID int64, lines []domain.CartLine) {
	a.store.Publish(userID, lines)
}
