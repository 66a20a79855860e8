package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Amounts in report results are cents.

type SalesSummary struct {
	Count    int64 `json:"count"`
	Gross    int64 `json:"gross"`
	Discount int64 `json:"discount"`
	VAT      int64 `json:"vat"`
	Shipping int64 `json:"shipping"`
	Net      int64 `json:"net"`
	Received int64 `json:"received"`
	Due      int64 `json:"due"`
	Cost     int64 `json:"cost"`
}

type DailySales struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
	Net   int64     `json:"net"`
}

type TopMedicine struct {
	MedicineID   uuid.UUID `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	QuantitySold int64     `json:"quantity_sold"`
	Revenue      int64     `json:"revenue"`
}

type SupplierPurchases struct {
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Count        int64     `json:"count"`
	Total        int64     `json:"total"`
	Due          int64     `json:"due"`
}

type PurchaseSummary struct {
	Count      int64               `json:"count"`
	Total      int64               `json:"total"`
	Paid       int64               `json:"paid"`
	Due        int64               `json:"due"`
	BySupplier []SupplierPurchases `json:"by_supplier"`
}

type StockValuation struct {
	MedicineID uuid.UUID `json:"medicine_id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	Quantity   int64     `json:"quantity"`
	TPValue    int64     `json:"tp_value"`
	MRPValue   int64     `json:"mrp_value"`
}

// ReportRepository runs the aggregations behind the dashboard and reports.
// Date ranges are half open, [from, to). Cancelled sales and purchases are
// excluded everywhere.
type ReportRepository interface {
	SalesSummary(ctx context.Context, from, to time.Time) (SalesSummary, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
	TopMedicines(ctx context.Context, from, to time.Time, limit int) ([]TopMedicine, error)
	PurchaseSummary(ctx context.Context, from, to time.Time) (PurchaseSummary, error)
	StockValuation(ctx context.Context) ([]StockValuation, error)
	// TotalDue is the outstanding due over all open sales.
	TotalDue(ctx context.Context) (int64, error)
}
