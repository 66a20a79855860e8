package request

import (
	"time"

	"github.com/google/uuid"
)

// SaleDetailsRequest sets the customer side of a POS session.
type SaleDetailsRequest struct {
	CustomerName  string  `json:"customer_name" binding:"max=255"`
	CustomerPhone string  `json:"customer_phone" binding:"max=50"`
	PaymentType   string  `json:"payment_type" binding:"omitempty,oneof=cash card mobile"`
	Notes         *string `json:"notes"`
}

type AddLineRequest struct {
	MedicineID uuid.UUID `json:"medicine_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
	UnitPrice  *float64  `json:"unit_price" binding:"omitempty,min=0"`
}

type UpdateLineRequest struct {
	Quantity  *int     `json:"quantity" binding:"omitempty,min=1"`
	UnitPrice *float64 `json:"unit_price" binding:"omitempty,min=0"`
}

// PaymentFieldRequest is one operator edit of a payment input.
type PaymentFieldRequest struct {
	Field string  `json:"field" binding:"required,oneof=discount_percent discount_amount vat_percent shipping_fee received_amount cart"`
	Value float64 `json:"value" binding:"min=0"`
}

type QuoteLineRequest struct {
	ItemID    uuid.UUID `json:"item_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price" binding:"min=0"`
	Quantity  int       `json:"quantity" binding:"min=1"`
}

// QuoteStateRequest is the payment state the client currently holds.
type QuoteStateRequest struct {
	DiscountPercent float64 `json:"discount_percent" binding:"min=0"`
	DiscountAmount  float64 `json:"discount_amount" binding:"min=0"`
	VATPercent      float64 `json:"vat_percent" binding:"min=0"`
	ShippingFee     float64 `json:"shipping_fee" binding:"min=0"`
	ReceivedAmount  float64 `json:"received_amount" binding:"min=0"`
}

type QuoteRequest struct {
	Lines   []QuoteLineRequest `json:"lines" binding:"dive"`
	State   QuoteStateRequest  `json:"state"`
	Changed string             `json:"changed" binding:"required"`
	Value   *float64           `json:"value" binding:"omitempty,min=0"`
}

type PayDueRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type SaleFilterRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

type PurchaseItemRequest struct {
	MedicineID uuid.UUID  `json:"medicine_id" binding:"required"`
	Quantity   int        `json:"quantity" binding:"required,min=1"`
	UnitCost   float64    `json:"unit_cost" binding:"min=0"`
	BatchNo    string     `json:"batch_no" binding:"max=100"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

type CreatePurchaseRequest struct {
	SupplierID     uuid.UUID             `json:"supplier_id" binding:"required"`
	Date           *time.Time            `json:"date"`
	DiscountAmount float64               `json:"discount_amount" binding:"min=0"`
	TaxPercent     float64               `json:"tax_percent" binding:"min=0,max=100"`
	PaidAmount     float64               `json:"paid_amount" binding:"min=0"`
	Notes          *string               `json:"notes"`
	Items          []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

type PurchaseFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// ReportRangeRequest is a YYYY-MM-DD day range. Both start_date and
// end_date are included.
type ReportRangeRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}
