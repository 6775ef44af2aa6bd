package booking

import (
	"fmt"
	"strings"
)

// PaymentMethod is how the customer will settle the deposit. Selecting one does not move money.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// ParsePaymentMethod accepts "card" or "cash" in any case.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentCard, PaymentCash:
		return m, nil
	default:
		return "", fmt.Errorf("invalid payment method: %s", s)
	}
}
