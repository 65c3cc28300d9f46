package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the methods a customer can pick at checkout.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentStripe         PaymentMethod = "stripe"
	PaymentCard           PaymentMethod = "card"
)

// ErrUnknownPaymentMethod indicates a method outside the enumerated set.
var ErrUnknownPaymentMethod = errors.New("domain: unknown payment method")

// ParsePaymentMethod maps a wire value onto the enumerated set.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(value))) {
	case PaymentCashOnDelivery:
		return PaymentCashOnDelivery, nil
	case PaymentStripe:
		return PaymentStripe, nil
	case PaymentCard:
		return PaymentCard, nil
	}
	return "", ErrUnknownPaymentMethod
}

// Label returns the customer-facing name of the method.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCashOnDelivery:
		return "Cash On Delivery"
	case PaymentStripe:
		return "Stripe"
	case PaymentCard:
		return "Visa / Master Card"
	}
	return strings.ToUpper(string(m))
}

// OrderStatus is the fulfilment state reported by the backend.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// PaymentStatus is the settlement state reported by the backend.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusUnknown PaymentStatus = "UNKNOWN"
)

// OrderLine is an immutable snapshot of a cart line at order time.
type OrderLine struct {
	ItemID    int64           `json:"itemId"`
	ItemName  string          `json:"itemName"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"totalPrice"`
	Category  string          `json:"category,omitempty"`
}

// OrderRequest is assembled once at checkout submission time and immutable
// afterwards. Totals are computed from the cart snapshot, not re-derived
// later, so a price change mid-checkout does not alter an in-flight order.
type OrderRequest struct {
	UserID          int64           `json:"userId"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Items           []OrderLine     `json:"items"`
	ItemsTotal      decimal.Decimal `json:"itemsTotal"`
	ShippingCharges decimal.Decimal `json:"shippingCharges"`
	OtherCharges    decimal.Decimal `json:"otherCharges"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
}

// Customer carries the profile block embedded in an order record.
type Customer struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Street    string `json:"street,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zipcode   string `json:"zipcode,omitempty"`
	Country   string `json:"country,omitempty"`
}

// FullName joins the available name parts; missing parts render as empty.
func (c Customer) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Order is a server-committed record created from a cart snapshot. It is
// never mutated client-side.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	CreatedAt       time.Time       `json:"createdAt"`
	OrderStatus     OrderStatus     `json:"orderStatus"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Items           []OrderLine     `json:"items"`
	ItemsTotal      decimal.Decimal `json:"itemsTotal"`
	ShippingCharges decimal.Decimal `json:"shippingCharges"`
	OtherCharges    decimal.Decimal `json:"otherCharges"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Customer        *Customer       `json:"user,omitempty"`
}

// TotalItems sums the quantities across all lines.
func (o Order) TotalItems() int {
	total := 0
	for _, line := range o.Items {
		total += line.Quantity
	}
	return total
}
