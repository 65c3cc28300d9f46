package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
)

func TestFetchCartDecodesLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cart/7" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Fatalf("expected bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"itemId": 1, "itemName": "Freight Box", "price": 50, "quantity": 2, "totalPrice": 100, "category": "Packaging"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	cart, err := c.FetchCart(context.Background(), "token-1", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Lines))
	}
	line := cart.Lines[0]
	if line.ItemID != 1 || line.Quantity != 2 {
		t.Fatalf("unexpected line %+v", line)
	}
	if !line.UnitPrice.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected price 50, got %s", line.UnitPrice)
	}
	if !line.LineTotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected line total 100, got %s", line.LineTotal)
	}
}

func TestFetchCartDerivesMissingLineTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"itemId": 1, "itemName": "Box", "price": 25, "quantity": 3}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	cart, err := c.FetchCart(context.Background(), "", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cart.Lines[0].LineTotal.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected derived total 75, got %s", cart.Lines[0].LineTotal)
	}
}

func TestStatusErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrRejected},
		{http.StatusUnprocessableEntity, ErrRejected},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusBadGateway, ErrUnavailable},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := NewClient(srv.URL)
		_, err := c.FetchCart(context.Background(), "token-1", 7)
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchCart(context.Background(), "token-1", 7)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCreateOrderSendsIdempotencyKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/orders" {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("Idempotency-Key")

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["paymentMethod"] != "cod" {
			t.Fatalf("expected cod, got %v", req["paymentMethod"])
		}

		_, _ = w.Write([]byte(`{"id": 555, "userId": 7, "orderStatus": "pending", "paymentStatus": "PAID", "totalAmount": 170}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	order, err := c.CreateOrder(context.Background(), "token-1", sampleOrderRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != 555 {
		t.Fatalf("expected order 555, got %d", order.ID)
	}
	if order.OrderStatus != "PENDING" {
		t.Fatalf("expected status normalised to PENDING, got %s", order.OrderStatus)
	}
	if !strings.HasPrefix(gotKey, "ord_") {
		t.Fatalf("expected ord_ idempotency key, got %q", gotKey)
	}
}

func TestGetOrderParsesArrayTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 321,
			"userId": 7,
			"createdAt": [2025, 3, 14, 15, 4, 5],
			"orderStatus": "SHIPPED",
			"items": [{"itemId": 1, "itemName": "Box", "quantity": 1, "price": 100, "totalPrice": 100, "item": {"category": "Packaging"}}],
			"user": {"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com"}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	order, err := c.GetOrder(context.Background(), "token-1", 321)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)
	if !order.CreatedAt.Equal(want) {
		t.Fatalf("expected %s, got %s", want, order.CreatedAt)
	}
	if order.Items[0].Category != "Packaging" {
		t.Fatalf("expected nested category, got %q", order.Items[0].Category)
	}
	if order.Customer == nil || order.Customer.FullName() != "Jane Doe" {
		t.Fatalf("expected customer Jane Doe, got %+v", order.Customer)
	}
}

func TestGetOrderParsesStringTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 321, "userId": 7, "createdAt": "2025-03-14T15:04:05Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	order, err := c.GetOrder(context.Background(), "token-1", 321)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)
	if !order.CreatedAt.Equal(want) {
		t.Fatalf("expected %s, got %s", want, order.CreatedAt)
	}
}

func TestOrderMissingIDIsBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"userId": 7}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetOrder(context.Background(), "token-1", 321)
	if !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload, got %v", err)
	}
}

func TestLoginFailureMapsToLoginFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "bad credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Login(context.Background(), "jane@example.com", "wrong")
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrLoginFailed to wrap ErrRejected, got %v", err)
	}
}

func TestLoginSuccessReturnsIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success": true, "token": "jwt-1", "user": {"id": 7, "email": "jane@example.com", "firstName": "Jane"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	identity, err := c.Login(context.Background(), "jane@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !identity.Valid() {
		t.Fatalf("expected valid identity, got %+v", identity)
	}
	if identity.Token != "jwt-1" || identity.User.ID != 7 {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func sampleOrderRequest() domain.OrderRequest {
	return domain.OrderRequest{
		UserID:        7,
		PaymentMethod: domain.PaymentCashOnDelivery,
		Items: []domain.OrderLine{
			{ItemID: 1, ItemName: "Freight Box", Quantity: 2, UnitPrice: decimal.NewFromInt(50), LineTotal: decimal.NewFromInt(100)},
		},
		ItemsTotal:      decimal.NewFromInt(100),
		ShippingCharges: decimal.NewFromInt(50),
		OtherCharges:    decimal.NewFromInt(20),
		TotalAmount:     decimal.NewFromInt(170),
	}
}
