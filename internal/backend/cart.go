package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
)

type cartLinePayload struct {
	ItemID    int64           `json:"itemId"`
	ItemName  string          `json:"itemName"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"totalPrice"`
	Category  string          `json:"category"`
}

func (p cartLinePayload) toDomain() (domain.CartLine, error) {
	if p.ItemID <= 0 {
		return domain.CartLine{}, fmt.Errorf("%w: cart line missing itemId", ErrBadPayload)
	}
	if p.Quantity < 1 {
		return domain.CartLine{}, fmt.Errorf("%w: cart line quantity %d", ErrBadPayload, p.Quantity)
	}
	line := domain.CartLine{
		ItemID:    p.ItemID,
		ItemName:  strings.TrimSpace(p.ItemName),
		UnitPrice: p.UnitPrice,
		Quantity:  p.Quantity,
		LineTotal: p.LineTotal,
		Category:  strings.TrimSpace(p.Category),
	}
	if line.LineTotal.IsZero() && !line.UnitPrice.IsZero() {
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	}
	return line, nil
}

func mapCartLines(payloads []cartLinePayload) ([]domain.CartLine, error) {
	lines := make([]domain.CartLine, 0, len(payloads))
	for _, p := range payloads {
		line, err := p.toDomain()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// FetchCart retrieves the authoritative cart for the user.
func (c *Client) FetchCart(ctx context.Context, token string, userID int64) (domain.Cart, error) {
	endpoint, err := c.endpoint("api", "cart", strconv.FormatInt(userID, 10))
	if err != nil {
		return domain.Cart{}, err
	}
	var payloads []cartLinePayload
	if err := c.do(ctx, http.MethodGet, endpoint, token, nil, &payloads); err != nil {
		return domain.Cart{}, err
	}
	lines, err := mapCartLines(payloads)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{UserID: userID, Lines: lines}, nil
}

type addItemRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// AddItem merges an item into the user's cart. The backend increments the
// quantity when the item already exists.
func (c *Client) AddItem(ctx context.Context, token string, userID, itemID int64, quantity int) error {
	endpoint, err := c.endpoint("api", "cart", strconv.FormatInt(userID, 10), "add")
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, endpoint, token, addItemRequest{ItemID: itemID, Quantity: quantity}, nil)
}

// UpdateItem sets the quantity of a cart line and returns the authoritative
// line, which may carry an adjusted price.
func (c *Client) UpdateItem(ctx context.Context, token string, userID, itemID int64, quantity int) (domain.CartLine, error) {
	endpoint, err := c.endpoint("api", "cart", strconv.FormatInt(userID, 10), "update")
	if err != nil {
		return domain.CartLine{}, err
	}
	var payload cartLinePayload
	req := addItemRequest{ItemID: itemID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPut, endpoint, token, req, &payload); err != nil {
		return domain.CartLine{}, err
	}
	return payload.toDomain()
}

// RemoveItem deletes a line from the user's cart.
func (c *Client) RemoveItem(ctx context.Context, token string, userID, itemID int64) error {
	endpoint, err := c.endpoint("api", "cart", strconv.FormatInt(userID, 10), "remove", strconv.FormatInt(itemID, 10))
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, endpoint, token, nil, nil)
}

// ClearCart empties the user's cart.
func (c *Client) ClearCart(ctx context.Context, token string, userID int64) error {
	endpoint, err := c.endpoint("api", "cart", strconv.FormatInt(userID, 10), "clear")
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, endpoint, token, nil, nil)
}
