package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amount renders a monetary value with exactly two fraction digits.
// Zero values render as "0.00", never as an empty string.
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Money renders a dollar amount with a currency sign and thousand
// separators. Example: Money(decimal.NewFromInt(1170)) => "$1,170.00".
func Money(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	head, tail, _ := strings.Cut(fixed, ".")
	out := "$" + thousandSep(head) + "." + tail
	if neg {
		return "-" + out
	}
	return out
}

func thousandSep(digits string) string {
	var b strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// DateTime formats a timestamp for invoices and order history. It is a pure
// function of the stored time, not wall-clock.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "Invalid date"
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

// Date formats a timestamp in short form.
func Date(t time.Time) string {
	if t.IsZero() {
		return "Invalid date"
	}
	return t.Format("Jan 2, 2006")
}
