package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: expected %s, got %s", field, want, got.String())
	}
}

func sameState(a, b PaymentState) bool {
	pairs := [][2]decimal.Decimal{
		{a.SubTotal, b.SubTotal},
		{a.DiscountPercent, b.DiscountPercent},
		{a.DiscountAmount, b.DiscountAmount},
		{a.VATPercent, b.VATPercent},
		{a.VATAmount, b.VATAmount},
		{a.ShippingFee, b.ShippingFee},
		{a.GrandTotal, b.GrandTotal},
		{a.ReceivedAmount, b.ReceivedAmount},
		{a.DueAmount, b.DueAmount},
		{a.ReturnAmount, b.ReturnAmount},
	}
	for _, p := range pairs {
		if !p[0].Equal(p[1]) {
			return false
		}
	}
	return true
}

func TestRecomputeWithVATDiscountAndChange(t *testing.T) {
	cart := []CartLine{NewCartLine(uuid.New(), "Napa", dec("10.00"), 2)}

	state := NewPaymentState()
	state = Apply(cart, state, FieldCart, decimal.Zero)
	state = Apply(cart, state, FieldVATPercent, dec("5"))
	state = Apply(cart, state, FieldDiscountPercent, dec("10"))
	state = Apply(cart, state, FieldReceivedAmount, dec("20"))

	assertAmount(t, "subTotal", state.SubTotal, "20.00")
	assertAmount(t, "vatAmount", state.VATAmount, "1.00")
	assertAmount(t, "discountAmount", state.DiscountAmount, "2.00")
	assertAmount(t, "grandTotal", state.GrandTotal, "19.00")
	assertAmount(t, "dueAmount", state.DueAmount, "0")
	assertAmount(t, "returnAmount", state.ReturnAmount, "1.00")
}

func TestRecomputePartialPaymentLeavesDue(t *testing.T) {
	cart := []CartLine{NewCartLine(uuid.New(), "Seclo", dec("25.00"), 2)}

	state := Apply(cart, NewPaymentState(), FieldReceivedAmount, dec("30"))

	assertAmount(t, "grandTotal", state.GrandTotal, "50.00")
	assertAmount(t, "dueAmount", state.DueAmount, "20.00")
	assertAmount(t, "returnAmount", state.ReturnAmount, "0")
}

func TestRecomputeDiscountAmountDerivesPercent(t *testing.T) {
	cart := []CartLine{NewCartLine(uuid.New(), "Ace", dec("5.00"), 10)}

	state := Apply(cart, NewPaymentState(), FieldDiscountAmount, dec("5"))

	assertAmount(t, "subTotal", state.SubTotal, "50.00")
	assertAmount(t, "discountPercent", state.DiscountPercent, "10.00")
	assertAmount(t, "grandTotal", state.GrandTotal, "45.00")
}

func TestRecomputeEmptyCartReturnsReceived(t *testing.T) {
	state := Apply(nil, NewPaymentState(), FieldReceivedAmount, dec("7.50"))

	assertAmount(t, "subTotal", state.SubTotal, "0")
	assertAmount(t, "grandTotal", state.GrandTotal, "0")
	assertAmount(t, "dueAmount", state.DueAmount, "0")
	assertAmount(t, "returnAmount", state.ReturnAmount, "7.50")
}

func TestRecomputeDiscountAmountOnEmptyCart(t *testing.T) {
	state := Apply(nil, NewPaymentState(), FieldDiscountAmount, dec("5"))

	assertAmount(t, "discountPercent", state.DiscountPercent, "0")
	assertAmount(t, "grandTotal", state.GrandTotal, "-5")
}

func TestRecomputeKeepsFlatDiscountOnCartChange(t *testing.T) {
	line := NewCartLine(uuid.New(), "Ace", dec("5.00"), 10)
	cart := []CartLine{line}
	state := Apply(cart, NewPaymentState(), FieldDiscountAmount, dec("5"))

	cart[0].SetQuantity(20)
	state = Recompute(cart, state, FieldCart)

	assertAmount(t, "subTotal", state.SubTotal, "100.00")
	assertAmount(t, "discountAmount", state.DiscountAmount, "5")
	// The percentage is left as last derived.
	assertAmount(t, "discountPercent", state.DiscountPercent, "10.00")
	assertAmount(t, "grandTotal", state.GrandTotal, "95.00")
}

func TestRecomputeDerivesUnsetDiscountFromPercent(t *testing.T) {
	state := NewPaymentState()
	state.DiscountPercent = dec("10")

	cart := []CartLine{NewCartLine(uuid.New(), "Ace", dec("3.00"), 5)}
	state = Recompute(cart, state, FieldCart)

	assertAmount(t, "discountAmount", state.DiscountAmount, "1.50")
	assertAmount(t, "grandTotal", state.GrandTotal, "13.50")
}

func TestRecomputeIsIdempotent(t *testing.T) {
	cart := []CartLine{
		NewCartLine(uuid.New(), "Napa", dec("1.15"), 7),
		NewCartLine(uuid.New(), "Maxpro", dec("7.00"), 3),
	}
	state := NewPaymentState()
	state.DiscountPercent = dec("12.5")
	state.VATPercent = dec("7.5")
	state.ShippingFee = dec("15")
	state.ReceivedAmount = dec("40")

	changes := []FieldChange{
		FieldCart, FieldDiscountPercent, FieldDiscountAmount,
		FieldVATPercent, FieldShippingFee, FieldReceivedAmount,
	}
	for _, changed := range changes {
		once := Recompute(cart, state, changed)
		twice := Recompute(cart, once, changed)
		if !sameState(once, twice) {
			t.Fatalf("%s: recompute not idempotent: %+v vs %+v", changed, once, twice)
		}
	}
}

func TestRecomputeInvariants(t *testing.T) {
	cart := []CartLine{
		NewCartLine(uuid.New(), "Napa", dec("1.15"), 7),
		NewCartLine(uuid.New(), "Fexo", dec("9.99"), 2),
	}
	received := []string{"0", "10", "28.03", "100"}

	for _, r := range received {
		state := NewPaymentState()
		state.VATPercent = dec("5")
		state.ShippingFee = dec("2.5")
		state = Apply(cart, state, FieldDiscountPercent, dec("3"))
		state = Apply(cart, state, FieldReceivedAmount, dec(r))

		want := state.SubTotal.Add(state.VATAmount).Add(state.ShippingFee).Sub(state.DiscountAmount)
		if !state.GrandTotal.Equal(want) {
			t.Fatalf("received %s: grand total %s, want %s", r, state.GrandTotal, want)
		}
		if !state.DueAmount.Mul(state.ReturnAmount).IsZero() {
			t.Fatalf("received %s: due %s and return %s both non-zero", r, state.DueAmount, state.ReturnAmount)
		}
		if state.DueAmount.IsNegative() || state.ReturnAmount.IsNegative() {
			t.Fatalf("received %s: negative due/return", r)
		}
		if !state.SubTotal.Equal(SubTotal(cart)) {
			t.Fatalf("received %s: subtotal drifted from cart", r)
		}
	}
}

func TestCartLineSetters(t *testing.T) {
	line := NewCartLine(uuid.New(), "Napa", dec("2.50"), 4)
	assertAmount(t, "lineTotal", line.LineTotal, "10.00")

	line.SetQuantity(3)
	assertAmount(t, "lineTotal", line.LineTotal, "7.50")

	line.SetUnitPrice(dec("3"))
	assertAmount(t, "lineTotal", line.LineTotal, "9.00")
}

func TestParseFieldChange(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"cart", true},
		{"discount_percent", true},
		{"discount_amount", true},
		{"vat_percent", true},
		{"shipping_fee", true},
		{"received_amount", true},
		{"grand_total", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParseFieldChange(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestCentsConversion(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"19.00", 1900},
		{"1.005", 101},
		{"0.004", 0},
		{"-5", -500},
	}
	for _, tc := range cases {
		if got := ToCents(dec(tc.in)); got != tc.cents {
			t.Fatalf("%s expected %d cents, got %d", tc.in, tc.cents, got)
		}
	}
	assertAmount(t, "fromCents", FromCents(1250), "12.50")
}
