package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/it23631960/pearl-logistics-user/internal/backend"
	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/session"
)

type stubOrders struct {
	mu      sync.Mutex
	calls   int
	lastReq domain.OrderRequest
	fn      func(ctx context.Context, token string, req domain.OrderRequest) (domain.Order, error)
}

func (s *stubOrders) CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (domain.Order, error) {
	s.mu.Lock()
	s.calls++
	s.lastReq = req
	fn := s.fn
	s.mu.Unlock()
	if fn == nil {
		return domain.Order{ID: 555, OrderStatus: domain.OrderStatusPending}, nil
	}
	return fn(ctx, token, req)
}

func (s *stubOrders) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubCart struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	cleared bool
	clearFn func(ctx context.Context, ident domain.Identity) error
}

func (s *stubCart) Cached(userID int64) []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine(nil), s.lines...)
}

func (s *stubCart) Clear(ctx context.Context, ident domain.Identity) error {
	s.mu.Lock()
	s.cleared = true
	fn := s.clearFn
	s.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, ident)
}

func (s *stubCart) wasCleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

func cartLine(itemID int64, price int64, qty int) domain.CartLine {
	return domain.CartLine{
		ItemID:    itemID,
		ItemName:  "item",
		UnitPrice: decimal.NewFromInt(price),
		Quantity:  qty,
		LineTotal: decimal.NewFromInt(price * int64(qty)),
	}
}

func testIdentity() domain.Identity {
	return domain.Identity{
		Token: "token-1",
		User:  domain.User{ID: 7, Email: "jane@example.com"},
	}
}

func newTestCoordinator(t *testing.T, orders OrderCreator, carts CartSource) *Coordinator {
	t.Helper()
	c, err := NewCoordinator(CoordinatorDeps{Orders: orders, Cart: carts})
	if err != nil {
		t.Fatalf("unexpected error constructing coordinator: %v", err)
	}
	return c
}

func TestSelectPaymentTransitionsState(t *testing.T) {
	c := newTestCoordinator(t, &stubOrders{}, &stubCart{})

	if got := c.State(7); got != StateIdle {
		t.Fatalf("expected idle, got %s", got)
	}
	method, err := c.SelectPayment(7, "cod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != domain.PaymentCashOnDelivery {
		t.Fatalf("expected cod, got %s", method)
	}
	if got := c.State(7); got != StatePaymentSelected {
		t.Fatalf("expected payment_selected, got %s", got)
	}
}

func TestSelectPaymentRejectsUnknownMethod(t *testing.T) {
	c := newTestCoordinator(t, &stubOrders{}, &stubCart{})

	if _, err := c.SelectPayment(7, "bitcoin"); !errors.Is(err, domain.ErrUnknownPaymentMethod) {
		t.Fatalf("expected ErrUnknownPaymentMethod, got %v", err)
	}
	if got := c.State(7); got != StateIdle {
		t.Fatalf("expected state unchanged at idle, got %s", got)
	}
}

func TestPlaceOrderRejectsEmptyCartBeforeNetwork(t *testing.T) {
	orders := &stubOrders{}
	c := newTestCoordinator(t, orders, &stubCart{})

	if _, err := c.SelectPayment(7, "cod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := c.PlaceOrder(context.Background(), testIdentity())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if orders.callCount() != 0 {
		t.Fatalf("expected no backend call, got %d", orders.callCount())
	}
}

func TestPlaceOrderRejectsMissingPaymentBeforeNetwork(t *testing.T) {
	orders := &stubOrders{}
	carts := &stubCart{lines: []domain.CartLine{cartLine(1, 100, 1)}}
	c := newTestCoordinator(t, orders, carts)

	_, err := c.PlaceOrder(context.Background(), testIdentity())
	if !errors.Is(err, ErrNoPaymentMethod) {
		t.Fatalf("expected ErrNoPaymentMethod, got %v", err)
	}
	if orders.callCount() != 0 {
		t.Fatalf("expected no backend call, got %d", orders.callCount())
	}
}

func TestPlaceOrderRequiresIdentity(t *testing.T) {
	c := newTestCoordinator(t, &stubOrders{}, &stubCart{})

	if _, err := c.PlaceOrder(context.Background(), domain.Identity{}); !errors.Is(err, session.ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}

func TestPlaceOrderTotalsIncludeFixedCharges(t *testing.T) {
	orders := &stubOrders{}
	carts := &stubCart{lines: []domain.CartLine{cartLine(1, 50, 2)}}
	c := newTestCoordinator(t, orders, carts)

	if _, err := c.SelectPayment(7, "cod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.PlaceOrder(context.Background(), testIdentity()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := orders.lastReq
	if !req.ItemsTotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected items total 100, got %s", req.ItemsTotal)
	}
	if !req.ShippingCharges.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected shipping 50, got %s", req.ShippingCharges)
	}
	if !req.OtherCharges.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected other charges 20, got %s", req.OtherCharges)
	}
	if req.TotalAmount.StringFixed(2) != "170.00" {
		t.Fatalf("expected total 170.00, got %s", req.TotalAmount.StringFixed(2))
	}
}

func TestPlaceOrderSuccessPersistsIDThenClearsCart(t *testing.T) {
	orders := &stubOrders{}
	carts := &stubCart{lines: []domain.CartLine{cartLine(1, 100, 1)}}
	c := newTestCoordinator(t, orders, carts)

	if _, err := c.SelectPayment(7, "stripe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, err := c.PlaceOrder(context.Background(), testIdentity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != 555 {
		t.Fatalf("expected order 555, got %d", order.ID)
	}
	if !carts.wasCleared() {
		t.Fatalf("expected cart clear after success")
	}
	if got := c.State(7); got != StateSucceeded {
		t.Fatalf("expected succeeded, got %s", got)
	}
	id, ok := c.LatestOrderID(7)
	if !ok || id != 555 {
		t.Fatalf("expected latest order 555, got %d (%v)", id, ok)
	}
}

func TestPlaceOrderSucceedsEvenWhenClearFails(t *testing.T) {
	orders := &stubOrders{}
	carts := &stubCart{
		lines: []domain.CartLine{cartLine(1, 100, 1)},
		clearFn: func(ctx context.Context, ident domain.Identity) error {
			return backend.ErrUnavailable
		},
	}
	c := newTestCoordinator(t, orders, carts)

	if _, err := c.SelectPayment(7, "cod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, err := c.PlaceOrder(context.Background(), testIdentity())
	if err != nil {
		t.Fatalf("expected success despite clear failure, got %v", err)
	}
	if order.ID != 555 {
		t.Fatalf("expected order 555, got %d", order.ID)
	}
	if id, ok := c.LatestOrderID(7); !ok || id != 555 {
		t.Fatalf("expected order id persisted before clear, got %d (%v)", id, ok)
	}
}

func TestPlaceOrderFailureReturnsToPaymentSelected(t *testing.T) {
	orders := &stubOrders{
		fn: func(ctx context.Context, token string, req domain.OrderRequest) (domain.Order, error) {
			return domain.Order{}, backend.ErrUnavailable
		},
	}
	carts := &stubCart{lines: []domain.CartLine{cartLine(1, 100, 1)}}
	c := newTestCoordinator(t, orders, carts)

	if _, err := c.SelectPayment(7, "card"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := c.PlaceOrder(context.Background(), testIdentity())
	if !errors.Is(err, backend.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if got := c.State(7); got != StatePaymentSelected {
		t.Fatalf("expected payment_selected after failure, got %s", got)
	}
	if got := c.SelectedPayment(7); got != domain.PaymentCard {
		t.Fatalf("expected payment choice preserved, got %s", got)
	}
	if carts.wasCleared() {
		t.Fatalf("cart must not be cleared on failure")
	}

	// Retry without reselecting the method succeeds.
	orders.mu.Lock()
	orders.fn = nil
	orders.mu.Unlock()
	order, err := c.PlaceOrder(context.Background(), testIdentity())
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if order.ID != 555 {
		t.Fatalf("expected order 555 on retry, got %d", order.ID)
	}
}

func TestPlaceOrderSingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	orders := &stubOrders{
		fn: func(ctx context.Context, token string, req domain.OrderRequest) (domain.Order, error) {
			close(started)
			<-release
			return domain.Order{ID: 555}, nil
		},
	}
	carts := &stubCart{lines: []domain.CartLine{cartLine(1, 100, 1)}}
	c := newTestCoordinator(t, orders, carts)

	if _, err := c.SelectPayment(7, "cod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := c.PlaceOrder(context.Background(), testIdentity())
		firstDone <- err
	}()
	<-started

	if _, err := c.PlaceOrder(context.Background(), testIdentity()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("unexpected error from first submit: %v", err)
	}
	if orders.callCount() != 1 {
		t.Fatalf("expected exactly one backend call, got %d", orders.callCount())
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	c := newTestCoordinator(t, &stubOrders{}, &stubCart{})

	if _, err := c.SelectPayment(7, "cod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Reset(7)
	if got := c.State(7); got != StateIdle {
		t.Fatalf("expected idle after reset, got %s", got)
	}
	if got := c.SelectedPayment(7); got != "" {
		t.Fatalf("expected payment choice dropped, got %s", got)
	}
}
