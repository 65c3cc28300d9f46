package invoice

import (
	"strings"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
)

// Tone names the colour family of a status badge.
type Tone string

const (
	ToneGreen Tone = "green"
	ToneBlue  Tone = "blue"
	ToneAmber Tone = "amber"
	ToneGray  Tone = "gray"
)

// RGB returns the badge fill colour.
func (t Tone) RGB() (r, g, b int) {
	switch t {
	case ToneGreen:
		return 76, 175, 80
	case ToneBlue:
		return 33, 150, 243
	case ToneAmber:
		return 255, 152, 0
	default:
		return 158, 158, 158
	}
}

// Badge pairs a status label with its tone.
type Badge struct {
	Label string
	Tone  Tone
}

// OrderStatusBadge maps a fulfilment status onto a badge. The mapping is
// total: statuses outside the known set fall back to a neutral gray.
func OrderStatusBadge(status domain.OrderStatus) Badge {
	label := strings.ToUpper(strings.TrimSpace(string(status)))
	if label == "" {
		label = "UNKNOWN"
	}
	switch domain.OrderStatus(label) {
	case domain.OrderStatusDelivered:
		return Badge{Label: label, Tone: ToneGreen}
	case domain.OrderStatusShipped:
		return Badge{Label: label, Tone: ToneBlue}
	case domain.OrderStatusPending:
		return Badge{Label: label, Tone: ToneAmber}
	default:
		return Badge{Label: label, Tone: ToneGray}
	}
}

// PaymentStatusBadge maps a settlement status onto a badge: PAID is green,
// everything else amber.
func PaymentStatusBadge(status domain.PaymentStatus) Badge {
	label := strings.ToUpper(strings.TrimSpace(string(status)))
	if label == "" {
		label = "UNKNOWN"
	}
	if domain.PaymentStatus(label) == domain.PaymentStatusPaid {
		return Badge{Label: label, Tone: ToneGreen}
	}
	return Badge{Label: label, Tone: ToneAmber}
}
