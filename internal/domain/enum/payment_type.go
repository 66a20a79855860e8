package enum

import (
	"fmt"
	"strings"
)

// PaymentType is how the customer paid at the counter.
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeCard   PaymentType = "card"
	PaymentTypeMobile PaymentType = "mobile"
)

// ParsePaymentType defaults to cash.
func ParsePaymentType(s string) (PaymentType, error) {
	switch p := PaymentType(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PaymentTypeCash, nil
	case PaymentTypeCash, PaymentTypeCard, PaymentTypeMobile:
		return p, nil
	default:
		return "", fmt.Errorf("unknown payment type %q", s)
	}
}
