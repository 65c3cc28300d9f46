package domain

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The backend serialises money as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// CartLine is a single entry in a user's cart. The backend cart store is
// authoritative; values held here are a read-through cached copy.
type CartLine struct {
	ItemID    int64           `json:"itemId"`
	ItemName  string          `json:"itemName"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"totalPrice"`
	Category  string          `json:"category,omitempty"`
}

// Cart is the collection of lines scoped to one user.
type Cart struct {
	UserID int64      `json:"userId"`
	Lines  []CartLine `json:"items"`
}

// CartTotals aggregates a cart for display and order assembly.
type CartTotals struct {
	TotalItems int             `json:"totalItems"`
	ItemsTotal decimal.Decimal `json:"itemsTotal"`
}

// Empty reports whether the cart holds no lines.
func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

// CloneLines returns an independent copy of the cart's lines.
func (c Cart) CloneLines() []CartLine {
	if len(c.Lines) == 0 {
		return nil
	}
	dup := make([]CartLine, len(c.Lines))
	copy(dup, c.Lines)
	return dup
}
