// Package checkout coordinates the order attempt: payment selection, cart
// validation, the single create-order commit, and the post-success sequence
// of persisting the order id, clearing the cart and handing off to the
// confirmation step.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/session"
)

// State names a position in the order-attempt machine:
// Idle -> PaymentSelected -> Submitting -> Succeeded | Failed.
type State string

const (
	StateIdle            State = "idle"
	StatePaymentSelected State = "payment_selected"
	StateSubmitting      State = "submitting"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
)

// Fixed charges in the reference deployment.
var (
	ShippingCharges = decimal.NewFromInt(50)
	OtherCharges    = decimal.NewFromInt(20)
)

var (
	// ErrEmptyCart rejects a submission over an empty cart, before any
	// network call is made.
	ErrEmptyCart = errors.New("checkout: cart is empty")

	// ErrNoPaymentMethod rejects a submission without a selected method,
	// before any network call is made.
	ErrNoPaymentMethod = errors.New("checkout: no payment method selected")

	// ErrSubmitInFlight rejects a second submit while one is in flight.
	ErrSubmitInFlight = errors.New("checkout: submission already in flight")

	errOrdersRequired = errors.New("checkout: order creator is required")
	errCartRequired   = errors.New("checkout: cart source is required")
)

// OrderCreator issues the single backend call that commits the order.
type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (domain.Order, error)
}

// CartSource exposes the cart snapshot the attempt is assembled from and the
// post-success clear.
type CartSource interface {
	Cached(userID int64) []domain.CartLine
	Clear(ctx context.Context, ident domain.Identity) error
}

// CoordinatorDeps bundles the coordinator's collaborators.
type CoordinatorDeps struct {
	Orders OrderCreator
	Cart   CartSource
	Logger *zap.Logger
}

// Coordinator tracks one order attempt per user.
type Coordinator struct {
	orders OrderCreator
	cart   CartSource
	logger *zap.Logger

	mu       sync.Mutex
	attempts map[int64]*attempt
}

type attempt struct {
	state       State
	method      domain.PaymentMethod
	inFlight    bool
	lastOrderID int64
}

// NewCoordinator constructs a Coordinator, validating required dependencies.
func NewCoordinator(deps CoordinatorDeps) (*Coordinator, error) {
	if deps.Orders == nil {
		return nil, errOrdersRequired
	}
	if deps.Cart == nil {
		return nil, errCartRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		orders:   deps.Orders,
		cart:     deps.Cart,
		logger:   logger,
		attempts: make(map[int64]*attempt),
	}, nil
}

func (c *Coordinator) attemptFor(userID int64) *attempt {
	a, ok := c.attempts[userID]
	if !ok {
		a = &attempt{state: StateIdle}
		c.attempts[userID] = a
	}
	return a
}

// State reports the current attempt state for a user.
func (c *Coordinator) State(userID int64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attemptFor(userID).state
}

// SelectPayment records the user's payment choice. An unknown method leaves
// the state unchanged and surfaces a validation error.
func (c *Coordinator) SelectPayment(userID int64, method string) (domain.PaymentMethod, error) {
	parsed, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	a := c.attemptFor(userID)
	if a.inFlight {
		return "", ErrSubmitInFlight
	}
	a.method = parsed
	a.state = StatePaymentSelected
	return parsed, nil
}

// SelectedPayment reports the payment choice recorded for a user, empty when
// none has been made.
func (c *Coordinator) SelectedPayment(userID int64) domain.PaymentMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attemptFor(userID).method
}

// LatestOrderID returns the order id persisted by the last successful
// submission, for the confirmation step.
func (c *Coordinator) LatestOrderID(userID int64) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a := c.attemptFor(userID)
	return a.lastOrderID, a.lastOrderID > 0
}

// PlaceOrder runs the Submitting transition. Preconditions (identity, a
// selected method, a non-empty cart) are checked before any network call;
// a violation surfaces a validation error with the state unchanged. On
// success it persists the order id first, then clears the cart best-effort,
// then returns the committed order for the confirmation hand-off. On failure
// the machine returns to PaymentSelected with the payment choice preserved.
func (c *Coordinator) PlaceOrder(ctx context.Context, ident domain.Identity) (domain.Order, error) {
	if !ident.Valid() {
		return domain.Order{}, session.ErrNoIdentity
	}
	userID := ident.User.ID

	c.mu.Lock()
	a := c.attemptFor(userID)
	if a.inFlight {
		c.mu.Unlock()
		return domain.Order{}, ErrSubmitInFlight
	}
	if a.method == "" {
		c.mu.Unlock()
		return domain.Order{}, ErrNoPaymentMethod
	}
	lines := c.cart.Cached(userID)
	if len(lines) == 0 {
		c.mu.Unlock()
		return domain.Order{}, ErrEmptyCart
	}
	method := a.method
	a.inFlight = true
	a.state = StateSubmitting
	c.mu.Unlock()

	req := buildOrderRequest(userID, method, lines)

	order, err := c.orders.CreateOrder(ctx, ident.Token, req)

	c.mu.Lock()
	a.inFlight = false
	if err != nil {
		// Payment choice is preserved so the user can retry directly.
		a.state = StatePaymentSelected
		c.mu.Unlock()
		return domain.Order{}, fmt.Errorf("checkout: place order: %w", err)
	}
	// Persist the order id before touching the cart: a catastrophic clear
	// failure must not lose the reference to the committed order.
	a.lastOrderID = order.ID
	a.state = StateSucceeded
	c.mu.Unlock()

	if clearErr := c.cart.Clear(ctx, ident); clearErr != nil {
		c.logger.Warn("cart clear after order failed",
			zap.Int64("user_id", userID),
			zap.Int64("order_id", order.ID),
			zap.Error(clearErr))
	}

	return order, nil
}

// Reset returns the attempt to Idle, dropping the payment selection. Used
// when a new shopping pass begins after a confirmed order.
func (c *Coordinator) Reset(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a := c.attemptFor(userID)
	if a.inFlight {
		return
	}
	a.state = StateIdle
	a.method = ""
}

func buildOrderRequest(userID int64, method domain.PaymentMethod, lines []domain.CartLine) domain.OrderRequest {
	items := make([]domain.OrderLine, 0, len(lines))
	itemsTotal := decimal.Zero
	for _, line := range lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, domain.OrderLine{
			ItemID:    line.ItemID,
			ItemName:  line.ItemName,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: lineTotal,
			Category:  line.Category,
		})
		itemsTotal = itemsTotal.Add(lineTotal)
	}
	return domain.OrderRequest{
		UserID:          userID,
		PaymentMethod:   method,
		Items:           items,
		ItemsTotal:      itemsTotal,
		ShippingCharges: ShippingCharges,
		OtherCharges:    OtherCharges,
		TotalAmount:     itemsTotal.Add(ShippingCharges).Add(OtherCharges),
	}
}
