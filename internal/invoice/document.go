// Package invoice projects a committed order into a printable document and
// encodes it as a downloadable PDF artifact. Building the document is
// deterministic: the same order always yields identical content.
package invoice

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/format"
)

// Branding carries the store identity printed on every invoice.
type Branding struct {
	Name         string
	Tagline      string
	SupportEmail string
}

// Document is the rendered, non-editable projection of one order.
type Document struct {
	Branding  Branding
	Number    string
	Date      string
	CreatedAt time.Time
	Status    Badge
	Customer  CustomerBlock
	Lines     []LineRow
	Payment   PaymentBlock
	Totals    TotalsBlock
	Footer    []string
}

// CustomerBlock holds the customer details section.
type CustomerBlock struct {
	Name         string
	Email        string
	AddressLines []string
}

// LineRow is one row of the line-item table, pre-formatted for rendering.
type LineRow struct {
	Index     int
	Name      string
	Category  string
	Quantity  string
	UnitPrice string
	LineTotal string
}

// PaymentBlock holds the payment information section.
type PaymentBlock struct {
	Method string
	Status Badge
}

// TotalsBlock is the always-complete totals section; absent monetary fields
// render as "0.00" rather than omitting the row.
type TotalsBlock struct {
	ItemsTotal string
	Shipping   string
	Other      string
	Total      string
}

// Renderer builds invoice documents for one store.
type Renderer struct {
	branding Branding
}

// NewRenderer constructs a Renderer with the given branding; empty fields
// fall back to neutral defaults so invoices stay well-formed.
func NewRenderer(branding Branding) *Renderer {
	if strings.TrimSpace(branding.Name) == "" {
		branding.Name = "Pearl Logistics"
	}
	return &Renderer{branding: branding}
}

// BuildDocument projects an order into a Document. Missing customer name
// parts render empty, a missing email or category renders "N/A", and every
// monetary field renders with two digits even when absent.
func (r *Renderer) BuildDocument(order domain.Order) Document {
	doc := Document{
		Branding:  r.branding,
		Number:    strconv.FormatInt(order.ID, 10),
		Date:      format.DateTime(order.CreatedAt),
		CreatedAt: order.CreatedAt,
		Status:    OrderStatusBadge(order.OrderStatus),
		Customer:  buildCustomerBlock(order.Customer),
		Payment: PaymentBlock{
			Method: paymentMethodLabel(order.PaymentMethod),
			Status: PaymentStatusBadge(order.PaymentStatus),
		},
		Totals: TotalsBlock{
			ItemsTotal: format.Amount(order.ItemsTotal),
			Shipping:   format.Amount(order.ShippingCharges),
			Other:      format.Amount(order.OtherCharges),
			Total:      format.Amount(order.TotalAmount),
		},
		Footer: []string{
			fmt.Sprintf("Thank you for shopping with %s!", r.branding.Name),
		},
	}
	if support := strings.TrimSpace(r.branding.SupportEmail); support != "" {
		doc.Footer = append(doc.Footer, fmt.Sprintf("If you have any questions, please contact us at %s", support))
	}

	for i, item := range order.Items {
		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = "N/A"
		}
		doc.Lines = append(doc.Lines, LineRow{
			Index:     i + 1,
			Name:      strings.TrimSpace(item.ItemName),
			Category:  category,
			Quantity:  strconv.Itoa(item.Quantity),
			UnitPrice: format.Amount(item.UnitPrice),
			LineTotal: format.Amount(item.LineTotal),
		})
	}
	return doc
}

func buildCustomerBlock(customer *domain.Customer) CustomerBlock {
	if customer == nil {
		return CustomerBlock{Name: "Customer", Email: "N/A"}
	}
	block := CustomerBlock{
		Name:  customer.FullName(),
		Email: strings.TrimSpace(customer.Email),
	}
	if block.Name == "" {
		block.Name = "Customer"
	}
	if block.Email == "" {
		block.Email = "N/A"
	}

	if street := strings.TrimSpace(customer.Street); street != "" {
		block.AddressLines = append(block.AddressLines, street)
	}
	var locality []string
	if city := strings.TrimSpace(customer.City); city != "" {
		locality = append(locality, city)
	}
	if region := strings.TrimSpace(strings.TrimSpace(customer.State) + " " + strings.TrimSpace(customer.Zipcode)); region != "" {
		locality = append(locality, region)
	}
	if len(locality) > 0 {
		block.AddressLines = append(block.AddressLines, strings.Join(locality, ", "))
	}
	if country := strings.TrimSpace(customer.Country); country != "" {
		block.AddressLines = append(block.AddressLines, country)
	}
	return block
}

func paymentMethodLabel(method domain.PaymentMethod) string {
	trimmed := strings.TrimSpace(string(method))
	if trimmed == "" {
		return "N/A"
	}
	return strings.ToUpper(trimmed)
}

// FileName is the canonical download name for an order's invoice.
func FileName(orderID int64) string {
	return fmt.Sprintf("invoice-%d.pdf", orderID)
}
