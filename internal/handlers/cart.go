package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/it23631960/pearl-logistics-user/internal/cart"
	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/httpx"
	"github.com/it23631960/pearl-logistics-user/internal/session"
)

// CartHandlers exposes the authenticated cart endpoints.
type CartHandlers struct {
	carts *cart.Aggregator
}

// NewCartHandlers constructs cart handlers over the aggregator.
func NewCartHandlers(carts *cart.Aggregator) *CartHandlers {
	return &CartHandlers{carts: carts}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Use(RequireIdentity)
	r.Get("/", h.getCart)
	r.Post("/items", h.addItem)
	r.Put("/items/{itemID}", h.updateItem)
	r.Delete("/items/{itemID}", h.removeItem)
	r.Delete("/", h.clearCart)
}

type cartResponse struct {
	Cart   domain.Cart       `json:"cart"`
	Totals domain.CartTotals `json:"totals"`
}

func buildCartResponse(c domain.Cart) cartResponse {
	return cartResponse{Cart: c, Totals: cart.Totals(c.Lines)}
}

type cartItemRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// maxLineQuantity caps the per-line quantity accepted over HTTP. The
// picker in the storefront offers 1 through 10.
const maxLineQuantity = 10

func validQuantity(q int) bool {
	return q >= 1 && q <= maxLineQuantity
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	fetched, err := h.carts.Fetch(ctx, identity)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartResponse(fetched))
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	body, err := readLimitedBody(r, maxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req cartItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}
	if req.ItemID <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "itemId is required", http.StatusBadRequest))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if !validQuantity(req.Quantity) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_quantity", "quantity must be between 1 and 10", http.StatusUnprocessableEntity))
		return
	}

	updated, err := h.carts.Add(ctx, identity, req.ItemID, req.Quantity)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartResponse(updated))
}

func (h *CartHandlers) updateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "item id must be a positive integer", http.StatusBadRequest))
		return
	}

	body, err := readLimitedBody(r, maxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req cartItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	if !validQuantity(req.Quantity) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_quantity", "quantity must be between 1 and 10", http.StatusUnprocessableEntity))
		return
	}

	updated, err := h.carts.SetQuantity(ctx, identity, itemID, req.Quantity)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartResponse(updated))
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "item id must be a positive integer", http.StatusBadRequest))
		return
	}

	updated, err := h.carts.Remove(ctx, identity, itemID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartResponse(updated))
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, _ := session.FromContext(ctx)

	if err := h.carts.Clear(ctx, identity); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartResponse(domain.Cart{UserID: identity.User.ID}))
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
