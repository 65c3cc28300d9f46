package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/httpx"
	"github.com/it23631960/pearl-logistics-user/internal/invoice"
	"github.com/it23631960/pearl-logistics-user/internal/reports"
	"github.com/it23631960/pearl-logistics-user/internal/session"
)

// OrderSource lists and fetches a user's committed orders.
type OrderSource interface {
	GetOrder(ctx context.Context, token string, orderID int64) (domain.Order, error)
	ListOrders(ctx context.Context, token string, userID int64) ([]domain.Order, error)
}

// OrderHandlers serves the order history and the invoice download.
type OrderHandlers struct {
	orders   OrderSource
	renderer *invoice.Renderer
	saver    *reports.Saver
}

// NewOrderHandlers constructs order handlers.
func NewOrderHandlers(orders OrderSource, renderer *invoice.Renderer, saver *reports.Saver) *OrderHandlers {
	return &OrderHandlers{orders: orders, renderer: renderer, saver: saver}
}

// Routes wires the /orders endpoints onto the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Use(RequireIdentity)
	r.Get("/", h.listOrders)
	r.Get("/{orderID}", h.getOrder)
	r.Get("/{orderID}/invoice", h.downloadInvoice)
}

type orderListResponse struct {
	Orders []domain.Order `json:"orders"`
}

func (h *OrderHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	orders, err := h.orders.ListOrders(ctx, identity.Token, identity.User.ID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	httpx.WriteJSON(w, http.StatusOK, orderListResponse{Orders: orders})
}

func (h *OrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	orderID, ok := pathID(r, "orderID")
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "order id must be a positive integer", http.StatusBadRequest))
		return
	}

	order, err := h.orders.GetOrder(ctx, identity.Token, orderID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orderResponse{Order: order})
}

// downloadInvoice renders the order's invoice PDF and serves it as an
// attachment. The rendered bytes are also handed to the report saver, which
// uploads them in the background without blocking the download.
func (h *OrderHandlers) downloadInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	orderID, ok := pathID(r, "orderID")
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "order id must be a positive integer", http.StatusBadRequest))
		return
	}

	order, err := h.orders.GetOrder(ctx, identity.Token, orderID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	doc := h.renderer.BuildDocument(order)
	pdf, err := invoice.RenderPDF(doc)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	h.saver.SaveInvoiceAsync(identity, order.ID, pdf)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", invoice.FileName(order.ID)))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
