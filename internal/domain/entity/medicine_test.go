package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func TestApplyPricingPackaged(t *testing.T) {
	m := Medicine{Type: enum.MedicineTypeTablet, StripSize: 10, BoxSize: 10}
	m.ApplyPricing(decimal.RequireFromString("10"), decimal.RequireFromString("12.50"))

	if m.MRPStrip != 12500 || m.MRPBox != 125000 {
		t.Fatalf("expected MRP strip 125.00 box 1250.00, got %d/%d", m.MRPStrip, m.MRPBox)
	}
	if m.TPStrip != 10000 || m.TPBox != 100000 {
		t.Fatalf("unexpected TP strip/box %d/%d", m.TPStrip, m.TPBox)
	}
	if m.ProfitMargin != 20 {
		t.Fatalf("expected 20%% margin, got %v", m.ProfitMargin)
	}
}

func TestApplyPricingFlatForSyrup(t *testing.T) {
	m := Medicine{Type: enum.MedicineTypeSyrup, StripSize: 10, BoxSize: 10}
	m.ApplyPricing(decimal.RequireFromString("60"), decimal.RequireFromString("85"))

	if m.MRPStrip != m.MRPUnit || m.MRPBox != m.MRPUnit {
		t.Fatalf("syrup should price flat, got unit %d strip %d box %d", m.MRPUnit, m.MRPStrip, m.MRPBox)
	}
}

func TestMedicineStockAndExpiry(t *testing.T) {
	exp := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	m := Medicine{Quantity: 5, QuantityAlert: 5, ExpiryDate: &exp}

	if !m.IsLowStock() {
		t.Fatalf("quantity at alert level should be low stock")
	}
	if !m.ExpiresBefore(exp.AddDate(0, 0, 1)) || m.ExpiresBefore(exp) {
		t.Fatalf("unexpected expiry comparison")
	}
	if (&Medicine{}).ExpiresBefore(exp) {
		t.Fatalf("no expiry date never expires")
	}
}

func TestMedicineJSONUsesDecimalPrices(t *testing.T) {
	m := Medicine{Name: "Napa", MRPUnit: 125, Quantity: 3, QuantityAlert: 10}
	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["mrp_unit"] != 1.25 {
		t.Fatalf("expected mrp_unit 1.25, got %v", out["mrp_unit"])
	}
	if out["low_stock"] != true {
		t.Fatalf("expected low_stock true, got %v", out["low_stock"])
	}
}
