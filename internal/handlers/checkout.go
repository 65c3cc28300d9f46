package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/it23631960/pearl-logistics-user/internal/checkout"
	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/httpx"
	"github.com/it23631960/pearl-logistics-user/internal/session"
)

// OrderReader fetches committed orders from the backend.
type OrderReader interface {
	GetOrder(ctx context.Context, token string, orderID int64) (domain.Order, error)
}

// CheckoutHandlers drives the order attempt endpoints.
type CheckoutHandlers struct {
	coordinator *checkout.Coordinator
	orders      OrderReader
}

// NewCheckoutHandlers constructs checkout handlers over the coordinator.
func NewCheckoutHandlers(coordinator *checkout.Coordinator, orders OrderReader) *CheckoutHandlers {
	return &CheckoutHandlers{coordinator: coordinator, orders: orders}
}

// Routes wires the /checkout endpoints onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Use(RequireIdentity)
	r.Get("/", h.state)
	r.Post("/payment", h.selectPayment)
	r.Post("/order", h.placeOrder)
	r.Get("/confirmation", h.confirmation)
	r.Post("/reset", h.reset)
}

type checkoutStateResponse struct {
	State         checkout.State       `json:"state"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod,omitempty"`
}

type selectPaymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type orderResponse struct {
	Order domain.Order `json:"order"`
}

func (h *CheckoutHandlers) state(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)
	userID := identity.User.ID

	httpx.WriteJSON(w, http.StatusOK, checkoutStateResponse{
		State:         h.coordinator.State(userID),
		PaymentMethod: h.coordinator.SelectedPayment(userID),
	})
}

func (h *CheckoutHandlers) selectPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	body, err := readLimitedBody(r, maxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req selectPaymentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	method, err := h.coordinator.SelectPayment(identity.User.ID, req.PaymentMethod)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, checkoutStateResponse{
		State:         h.coordinator.State(identity.User.ID),
		PaymentMethod: method,
	})
}

func (h *CheckoutHandlers) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	order, err := h.coordinator.PlaceOrder(ctx, identity)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, orderResponse{Order: order})
}

// confirmation serves the order committed by the latest successful
// submission. A fresh session with no committed order yields 404 so the
// frontend can route back to shopping.
func (h *CheckoutHandlers) confirmation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	orderID, ok := h.coordinator.LatestOrderID(identity.User.ID)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("no_recent_order", "no order has been placed in this session", http.StatusNotFound))
		return
	}

	order, err := h.orders.GetOrder(ctx, identity.Token, orderID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orderResponse{Order: order})
}

func (h *CheckoutHandlers) reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	h.coordinator.Reset(identity.User.ID)
	httpx.WriteJSON(w, http.StatusOK, checkoutStateResponse{State: h.coordinator.State(identity.User.ID)})
}
