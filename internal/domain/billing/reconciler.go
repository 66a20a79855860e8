package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldChange names the input the operator edited last. It decides which of
// the two discount fields is authoritative during Recompute.
type FieldChange string

const (
	FieldCart            FieldChange = "cart"
	FieldDiscountPercent FieldChange = "discount_percent"
	FieldDiscountAmount  FieldChange = "discount_amount"
	FieldVATPercent      FieldChange = "vat_percent"
	FieldShippingFee     FieldChange = "shipping_fee"
	FieldReceivedAmount  FieldChange = "received_amount"
)

// ParseFieldChange validates a field name coming from a request.
func ParseFieldChange(s string) (FieldChange, error) {
	switch f := FieldChange(s); f {
	case FieldCart, FieldDiscountPercent, FieldDiscountAmount,
		FieldVATPercent, FieldShippingFee, FieldReceivedAmount:
		return f, nil
	default:
		return "", fmt.Errorf("unknown payment field %q", s)
	}
}

// CartLine is one entry of an in-progress sale. LineTotal is always
// Quantity * UnitPrice; mutate the line through its setters.
type CartLine struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NewCartLine builds a line with a consistent total.
func NewCartLine(itemID uuid.UUID, name string, unitPrice decimal.Decimal, quantity int) CartLine {
	l := CartLine{ItemID: itemID, Name: name, UnitPrice: unitPrice, Quantity: quantity}
	l.refresh()
	return l
}

// SetQuantity changes the quantity and recomputes the line total.
func (l *CartLine) SetQuantity(quantity int) {
	l.Quantity = quantity
	l.refresh()
}

// SetUnitPrice overrides the unit price and recomputes the line total.
func (l *CartLine) SetUnitPrice(price decimal.Decimal) {
	l.UnitPrice = price
	l.refresh()
}

func (l *CartLine) refresh() {
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PaymentState is the reconciliation record of one sale.
type PaymentState struct {
	SubTotal        decimal.Decimal `json:"sub_total"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	VATPercent      decimal.Decimal `json:"vat_percent"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	ReceivedAmount  decimal.Decimal `json:"received_amount"`
	DueAmount       decimal.Decimal `json:"due_amount"`
	ReturnAmount    decimal.Decimal `json:"return_amount"`
}

// NewPaymentState returns the all-zero state a sale session starts with.
func NewPaymentState() PaymentState {
	return PaymentState{}
}

// SubTotal sums the line totals of a cart.
func SubTotal(cart []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range cart {
		total = total.Add(line.LineTotal)
	}
	return total
}

// Recompute returns the state with every derived field brought in line with
// the cart and the operator-entered fields. It never fails and has no side
// effects; negative inputs are the caller's to reject.
func Recompute(cart []CartLine, state PaymentState, changed FieldChange) PaymentState {
	next := state
	next.SubTotal = SubTotal(cart)

	switch changed {
	case FieldDiscountPercent:
		next.DiscountAmount = Round2(percentOf(next.SubTotal, next.DiscountPercent))
	case FieldDiscountAmount:
		if next.SubTotal.IsPositive() {
			next.DiscountPercent = Round2(next.DiscountAmount.Div(next.SubTotal).Mul(hundred))
		} else {
			next.DiscountPercent = decimal.Zero
		}
	default:
		// A flat amount the operator typed survives cart edits; only an
		// amount that was never set follows the percentage.
		if next.DiscountPercent.IsPositive() && state.DiscountAmount.IsZero() {
			next.DiscountAmount = Round2(percentOf(next.SubTotal, next.DiscountPercent))
		}
	}

	next.VATAmount = percentOf(next.SubTotal, next.VATPercent)
	next.GrandTotal = next.SubTotal.
		Add(next.VATAmount).
		Add(next.ShippingFee).
		Sub(next.DiscountAmount)

	next.DueAmount = decimal.Max(decimal.Zero, next.GrandTotal.Sub(next.ReceivedAmount))
	next.ReturnAmount = decimal.Max(decimal.Zero, next.ReceivedAmount.Sub(next.GrandTotal))

	return next
}

// Apply sets the operator-entered field named by changed to value and
// recomputes. FieldCart ignores value.
func Apply(cart []CartLine, state PaymentState, changed FieldChange, value decimal.Decimal) PaymentState {
	switch changed {
	case FieldDiscountPercent:
		state.DiscountPercent = value
	case FieldDiscountAmount:
		state.DiscountAmount = value
	case FieldVATPercent:
		state.VATPercent = value
	case FieldShippingFee:
		state.ShippingFee = value
	case FieldReceivedAmount:
		state.ReceivedAmount = value
	}
	return Recompute(cart, state, changed)
}
