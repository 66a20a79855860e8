package billing

import "github.com/shopspring/decimal"

// PackPrice is the price of one unit, one strip and one box of a medicine.
type PackPrice struct {
	Unit  decimal.Decimal `json:"unit"`
	Strip decimal.Decimal `json:"strip"`
	Box   decimal.Decimal `json:"box"`
}

// PackPricing derives strip and box prices from a unit price.
// stripSize is units per strip, boxSize is strips per box.
func PackPricing(unitPrice decimal.Decimal, stripSize, boxSize int) PackPrice {
	strip := Round2(unitPrice.Mul(decimal.NewFromInt(int64(stripSize))))
	box := Round2(strip.Mul(decimal.NewFromInt(int64(boxSize))))
	return PackPrice{Unit: unitPrice, Strip: strip, Box: box}
}

// FlatPricing is used for items not sold in strips or boxes.
func FlatPricing(unitPrice decimal.Decimal) PackPrice {
	return PackPrice{Unit: unitPrice, Strip: unitPrice, Box: unitPrice}
}

// ProfitMargin is the margin on the selling price, in percent.
func ProfitMargin(buyingPrice, sellingPrice decimal.Decimal) decimal.Decimal {
	if !sellingPrice.IsPositive() {
		return decimal.Zero
	}
	return Round2(sellingPrice.Sub(buyingPrice).Div(sellingPrice).Mul(hundred))
}
