package invoice

import (
	"testing"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
)

func TestOrderStatusBadgeMappingIsTotal(t *testing.T) {
	cases := []struct {
		status domain.OrderStatus
		label  string
		tone   Tone
	}{
		{domain.OrderStatusDelivered, "DELIVERED", ToneGreen},
		{domain.OrderStatusShipped, "SHIPPED", ToneBlue},
		{domain.OrderStatusPending, "PENDING", ToneAmber},
		{"delivered", "DELIVERED", ToneGreen},
		{" shipped ", "SHIPPED", ToneBlue},
		{"CANCELLED", "CANCELLED", ToneGray},
		{"", "UNKNOWN", ToneGray},
	}

	for _, tc := range cases {
		badge := OrderStatusBadge(tc.status)
		if badge.Label != tc.label {
			t.Fatalf("status %q: expected label %q, got %q", tc.status, tc.label, badge.Label)
		}
		if badge.Tone != tc.tone {
			t.Fatalf("status %q: expected tone %s, got %s", tc.status, tc.tone, badge.Tone)
		}
	}
}

func TestPaymentStatusBadge(t *testing.T) {
	cases := []struct {
		status domain.PaymentStatus
		label  string
		tone   Tone
	}{
		{domain.PaymentStatusPaid, "PAID", ToneGreen},
		{"paid", "PAID", ToneGreen},
		{"PENDING", "PENDING", ToneAmber},
		{"", "UNKNOWN", ToneAmber},
	}

	for _, tc := range cases {
		badge := PaymentStatusBadge(tc.status)
		if badge.Label != tc.label {
			t.Fatalf("status %q: expected label %q, got %q", tc.status, tc.label, badge.Label)
		}
		if badge.Tone != tc.tone {
			t.Fatalf("status %q: expected tone %s, got %s", tc.status, tc.tone, badge.Tone)
		}
	}
}

func TestToneRGB(t *testing.T) {
	cases := []struct {
		tone    Tone
		r, g, b int
	}{
		{ToneGreen, 76, 175, 80},
		{ToneBlue, 33, 150, 243},
		{ToneAmber, 255, 152, 0},
		{ToneGray, 158, 158, 158},
		{"magenta", 158, 158, 158},
	}

	for _, tc := range cases {
		r, g, b := tc.tone.RGB()
		if r != tc.r || g != tc.g || b != tc.b {
			t.Fatalf("tone %s: expected (%d,%d,%d), got (%d,%d,%d)", tc.tone, tc.r, tc.g, tc.b, r, g, b)
		}
	}
}
