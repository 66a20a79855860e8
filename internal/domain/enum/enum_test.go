package enum

import (
	"encoding/json"
	"testing"
)

func TestMedicineTypePackaging(t *testing.T) {
	cases := map[MedicineType]bool{
		MedicineTypeTablet:    true,
		MedicineTypeCapsule:   true,
		MedicineTypeSyrup:     false,
		MedicineTypeInjection: false,
		MedicineTypeOther:     false,
	}
	for mt, want := range cases {
		if got := mt.IsPackaged(); got != want {
			t.Fatalf("%s.IsPackaged() = %v, want %v", mt, got, want)
		}
	}
}

func TestParseMedicineType(t *testing.T) {
	if mt, err := ParseMedicineType(" Tablet "); err != nil || mt != MedicineTypeTablet {
		t.Fatalf("expected tablet, got %q (%v)", mt, err)
	}
	if mt, err := ParseMedicineType(""); err != nil || mt != MedicineTypeOther {
		t.Fatalf("expected other for empty input, got %q (%v)", mt, err)
	}
	if _, err := ParseMedicineType("powder"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestSaleStatusJSON(t *testing.T) {
	raw, err := json.Marshal(SaleStatusDue)
	if err != nil || string(raw) != `"due"` {
		t.Fatalf("unexpected marshal %s (%v)", raw, err)
	}

	var s SaleStatus
	if err := json.Unmarshal([]byte(`"cancelled"`), &s); err != nil || s != SaleStatusCancelled {
		t.Fatalf("unexpected unmarshal %v (%v)", s, err)
	}
	if err := json.Unmarshal([]byte(`"refunded"`), &s); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestPurchaseStatusAcceptsNumbers(t *testing.T) {
	var s PurchaseStatus
	if err := json.Unmarshal([]byte(`1`), &s); err != nil || s != PurchaseStatusReceived {
		t.Fatalf("unexpected unmarshal %v (%v)", s, err)
	}
	if PurchaseStatus(9).String() != "unknown" {
		t.Fatalf("out of range status should stringify as unknown")
	}
}

func TestParsePaymentType(t *testing.T) {
	if p, err := ParsePaymentType(""); err != nil || p != PaymentTypeCash {
		t.Fatalf("expected cash default, got %q (%v)", p, err)
	}
	if p, err := ParsePaymentType("CARD"); err != nil || p != PaymentTypeCard {
		t.Fatalf("expected card, got %q (%v)", p, err)
	}
	if _, err := ParsePaymentType("cheque"); err == nil {
		t.Fatalf("expected error for cheque")
	}
}

func TestSupplierTypeRejectsUnknown(t *testing.T) {
	var st SupplierType
	if err := json.Unmarshal([]byte(`"broker"`), &st); err == nil {
		t.Fatalf("expected error for unknown supplier type")
	}
	if err := json.Unmarshal([]byte(`""`), &st); err != nil || st != SupplierTypeDistributor {
		t.Fatalf("expected distributor default, got %q (%v)", st, err)
	}
}

func TestPurchaseStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to PurchaseStatus
		ok       bool
	}{
		{PurchaseStatusPending, PurchaseStatusReceived, true},
		{PurchaseStatusPending, PurchaseStatusCancelled, true},
		{PurchaseStatusPending, PurchaseStatusPending, false},
		{PurchaseStatusReceived, PurchaseStatusCancelled, false},
		{PurchaseStatusCancelled, PurchaseStatusReceived, false},
	}
	for _, tc := range cases {
		err := tc.from.TransitionTo(tc.to)
		if (err == nil) != tc.ok {
			t.Fatalf("%s -> %s: ok=%v, err=%v", tc.from, tc.to, tc.ok, err)
		}
	}
}

func TestParseSupplierType(t *testing.T) {
	if st, err := ParseSupplierType(" Wholesaler"); err != nil || st != SupplierTypeWholesaler {
		t.Fatalf("expected wholesaler, got %q (%v)", st, err)
	}
	if _, err := ParseSupplierType("broker"); err == nil {
		t.Fatalf("expected error for broker")
	}
	if SupplierType("").IsValid() {
		t.Fatalf("empty type should not be valid")
	}
}
