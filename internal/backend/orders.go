package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
)

type customerPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
}

type orderLinePayload struct {
	ItemID    int64           `json:"itemId"`
	ItemName  string          `json:"itemName"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"totalPrice"`
	Item      *struct {
		Category string `json:"category"`
	} `json:"item"`
}

type orderPayload struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"userId"`
	CreatedAt       wireTime         `json:"createdAt"`
	OrderStatus     string           `json:"orderStatus"`
	PaymentStatus   string           `json:"paymentStatus"`
	PaymentMethod   string           `json:"paymentMethod"`
	Items           []orderLinePayload `json:"items"`
	ItemsTotal      decimal.Decimal  `json:"itemsTotal"`
	ShippingCharges decimal.Decimal  `json:"shippingCharges"`
	OtherCharges    decimal.Decimal  `json:"otherCharges"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	Customer        *customerPayload `json:"user"`
}

func (p orderPayload) toDomain() (domain.Order, error) {
	if p.ID <= 0 {
		return domain.Order{}, fmt.Errorf("%w: order missing id", ErrBadPayload)
	}
	order := domain.Order{
		ID:              p.ID,
		UserID:          p.UserID,
		CreatedAt:       p.CreatedAt.Time,
		OrderStatus:     domain.OrderStatus(strings.ToUpper(strings.TrimSpace(p.OrderStatus))),
		PaymentStatus:   domain.PaymentStatus(strings.ToUpper(strings.TrimSpace(p.PaymentStatus))),
		PaymentMethod:   domain.PaymentMethod(strings.ToLower(strings.TrimSpace(p.PaymentMethod))),
		ItemsTotal:      p.ItemsTotal,
		ShippingCharges: p.ShippingCharges,
		OtherCharges:    p.OtherCharges,
		TotalAmount:     p.TotalAmount,
	}
	for _, item := range p.Items {
		line := domain.OrderLine{
			ItemID:    item.ItemID,
			ItemName:  strings.TrimSpace(item.ItemName),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
		if item.Item != nil {
			line.Category = strings.TrimSpace(item.Item.Category)
		}
		order.Items = append(order.Items, line)
	}
	if p.Customer != nil {
		order.Customer = &domain.Customer{
			FirstName: strings.TrimSpace(p.Customer.FirstName),
			LastName:  strings.TrimSpace(p.Customer.LastName),
			Email:     strings.TrimSpace(p.Customer.Email),
			Street:    strings.TrimSpace(p.Customer.Street),
			City:      strings.TrimSpace(p.Customer.City),
			State:     strings.TrimSpace(p.Customer.State),
			Zipcode:   strings.TrimSpace(p.Customer.Zipcode),
			Country:   strings.TrimSpace(p.Customer.Country),
		}
	}
	return order, nil
}

// CreateOrder commits an order request and returns the server-assigned order.
// This is the single call that performs the checkout commit; an idempotency
// key guards against duplicate submission on retried transports.
func (c *Client) CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (domain.Order, error) {
	endpoint, err := c.endpoint("api", "orders")
	if err != nil {
		return domain.Order{}, err
	}
	var payload orderPayload
	key := header{key: "Idempotency-Key", value: "ord_" + ulid.Make().String()}
	if err := c.do(ctx, http.MethodPost, endpoint, token, req, &payload, key); err != nil {
		return domain.Order{}, err
	}
	return payload.toDomain()
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, token string, orderID int64) (domain.Order, error) {
	endpoint, err := c.endpoint("api", "orders", strconv.FormatInt(orderID, 10))
	if err != nil {
		return domain.Order{}, err
	}
	var payload orderPayload
	if err := c.do(ctx, http.MethodGet, endpoint, token, nil, &payload); err != nil {
		return domain.Order{}, err
	}
	return payload.toDomain()
}

// ListOrders fetches the order history for a user, newest as returned by the
// backend.
func (c *Client) ListOrders(ctx context.Context, token string, userID int64) ([]domain.Order, error) {
	endpoint, err := c.endpoint("api", "orders", "user", strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, err
	}
	var payloads []orderPayload
	if err := c.do(ctx, http.MethodGet, endpoint, token, nil, &payloads); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(payloads))
	for _, p := range payloads {
		order, err := p.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
