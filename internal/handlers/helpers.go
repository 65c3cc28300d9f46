package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/it23631960/pearl-logistics-user/internal/backend"
	"github.com/it23631960/pearl-logistics-user/internal/cart"
	"github.com/it23631960/pearl-logistics-user/internal/checkout"
	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/httpx"
	"github.com/it23631960/pearl-logistics-user/internal/invoice"
	"github.com/it23631960/pearl-logistics-user/internal/session"
)

const maxBodySize = 16 * 1024

var errBodyTooLarge = errors.New("handlers: request body too large")

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer func() {
		_ = r.Body.Close()
	}()
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, errBodyTooLarge
	}
	return body, nil
}

func errUnauthenticated() httpx.Error {
	return httpx.NewError("unauthenticated", "sign in to continue", http.StatusUnauthorized).
		WithDetails(map[string]any{"login": "/api/auth/login"})
}

// RequireIdentity gates a route group on a valid session identity.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			httpx.WriteError(r.Context(), w, errUnauthenticated())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeDomainError translates sentinel errors from the inner packages into
// the storefront's error envelope.
func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoIdentity):
		httpx.WriteError(ctx, w, errUnauthenticated())
	case errors.Is(err, backend.ErrLoginFailed):
		httpx.WriteError(ctx, w, httpx.NewError("login_failed", "email or password is incorrect", http.StatusUnauthorized))
	case errors.Is(err, checkout.ErrSubmitInFlight):
		httpx.WriteError(ctx, w, httpx.NewError("order_in_flight", "an order submission is already in progress", http.StatusConflict))
	case errors.Is(err, checkout.ErrEmptyCart):
		httpx.WriteError(ctx, w, httpx.NewError("cart_empty", "cart has no items to order", http.StatusUnprocessableEntity))
	case errors.Is(err, checkout.ErrNoPaymentMethod):
		httpx.WriteError(ctx, w, httpx.NewError("payment_method_required", "select a payment method before placing the order", http.StatusUnprocessableEntity))
	case errors.Is(err, cart.ErrInvalidQuantity):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_quantity", "quantity must be a positive integer", http.StatusUnprocessableEntity))
	case errors.Is(err, domain.ErrUnknownPaymentMethod):
		httpx.WriteError(ctx, w, httpx.NewError("unknown_payment_method", "payment method is not supported", http.StatusUnprocessableEntity))
	case errors.Is(err, backend.ErrNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "the requested resource does not exist", http.StatusNotFound))
	case errors.Is(err, backend.ErrUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("backend_unavailable", "the store backend is temporarily unavailable, try again", http.StatusBadGateway))
	case errors.Is(err, backend.ErrRejected), errors.Is(err, backend.ErrBadPayload):
		httpx.WriteError(ctx, w, httpx.NewError("request_rejected", "the store backend rejected the request", http.StatusUnprocessableEntity))
	case errors.Is(err, invoice.ErrRender):
		httpx.WriteError(ctx, w, httpx.NewError("invoice_render_failed", "could not render the invoice document", http.StatusInternalServerError))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "an unexpected error occurred", http.StatusInternalServerError))
	}
}
