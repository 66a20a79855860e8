package billing

import "testing"

func TestPackPricing(t *testing.T) {
	cases := []struct {
		unit       string
		strip, box int
		wantStrip  string
		wantBox    string
	}{
		{"12.50", 10, 10, "125.00", "1250.00"},
		{"1.15", 10, 5, "11.50", "57.50"},
		{"0.333", 3, 2, "1.00", "2.00"},
		{"4", 14, 1, "56", "56"},
	}
	for _, tc := range cases {
		got := PackPricing(dec(tc.unit), tc.strip, tc.box)
		assertAmount(t, "strip "+tc.unit, got.Strip, tc.wantStrip)
		assertAmount(t, "box "+tc.unit, got.Box, tc.wantBox)
		assertAmount(t, "unit "+tc.unit, got.Unit, tc.unit)
	}
}

func TestFlatPricing(t *testing.T) {
	got := FlatPricing(dec("85"))
	assertAmount(t, "strip", got.Strip, "85")
	assertAmount(t, "box", got.Box, "85")
}

func TestProfitMargin(t *testing.T) {
	cases := []struct {
		buy, sell, want string
	}{
		{"8", "10", "20.00"},
		{"10", "10", "0"},
		{"12", "10", "-20.00"},
		{"1", "3", "66.67"},
		{"5", "0", "0"},
	}
	for _, tc := range cases {
		got := ProfitMargin(dec(tc.buy), dec(tc.sell))
		assertAmount(t, "margin "+tc.buy+"/"+tc.sell, got, tc.want)
	}
}
