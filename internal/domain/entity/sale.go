package entity

import (
	"encoding/json"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/billing"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a submitted POS invoice. Its amounts are the reconciled payment
// state at submission, each rounded to cents.
type Sale struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo       string           `gorm:"size:100;uniqueIndex;not null" json:"invoice_no"`
	Date            time.Time        `gorm:"not null;index" json:"date"`
	CustomerName    string           `gorm:"size:255" json:"customer_name"`
	CustomerPhone   string           `gorm:"size:50" json:"customer_phone"`
	PaymentType     enum.PaymentType `gorm:"size:20;not null" json:"payment_type"`
	Status          enum.SaleStatus  `gorm:"default:0;index" json:"status"`
	SubTotal        int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DiscountPercent float64          `gorm:"type:decimal(7,2);default:0" json:"discount_percent"`
	DiscountAmount  int64            `gorm:"default:0" json:"-"`
	VATPercent      float64          `gorm:"type:decimal(7,2);default:0" json:"vat_percent"`
	VATAmount       int64            `gorm:"default:0" json:"-"`
	ShippingFee     int64            `gorm:"default:0" json:"-"`
	GrandTotal      int64            `gorm:"default:0" json:"-"`
	ReceivedAmount  int64            `gorm:"default:0" json:"-"`
	DueAmount       int64            `gorm:"default:0" json:"-"`
	ReturnAmount    int64            `gorm:"default:0" json:"-"`
	Notes           *string          `gorm:"type:text" json:"notes,omitempty"`
	CancelledAt     *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`

	Details []SaleDetail `gorm:"foreignKey:SaleID" json:"details,omitempty"`
}

// ApplyPaymentState copies a reconciled state onto the sale. The entered
// parts are rounded to cents one by one; grand total, due and return are
// then derived from the rounded parts so the stored invoice adds up.
func (s *Sale) ApplyPaymentState(state billing.PaymentState) {
	s.SubTotal = billing.ToCents(state.SubTotal)
	s.DiscountPercent = billing.Round2(state.DiscountPercent).InexactFloat64()
	s.DiscountAmount = billing.ToCents(state.DiscountAmount)
	s.VATPercent = billing.Round2(state.VATPercent).InexactFloat64()
	s.VATAmount = billing.ToCents(state.VATAmount)
	s.ShippingFee = billing.ToCents(state.ShippingFee)
	s.GrandTotal = s.SubTotal + s.VATAmount + s.ShippingFee - s.DiscountAmount
	s.ReceivedAmount = billing.ToCents(state.ReceivedAmount)
	s.DueAmount = max(0, s.GrandTotal-s.ReceivedAmount)
	s.ReturnAmount = max(0, s.ReceivedAmount-s.GrandTotal)
	s.refreshStatus()
}

// RecordPayment books a payment against the due amount. An amount above
// the due becomes change.
func (s *Sale) RecordPayment(amountCents int64) {
	s.ReceivedAmount += amountCents
	s.DueAmount -= amountCents
	if s.DueAmount < 0 {
		s.ReturnAmount += -s.DueAmount
		s.DueAmount = 0
	}
	s.refreshStatus()
}

func (s *Sale) refreshStatus() {
	if s.DueAmount > 0 {
		s.Status = enum.SaleStatusDue
	} else {
		s.Status = enum.SaleStatusPaid
	}
}

// PaymentState rebuilds the stored amounts as a billing state.
func (s *Sale) PaymentState() billing.PaymentState {
	return billing.PaymentState{
		SubTotal:        billing.FromCents(s.SubTotal),
		DiscountPercent: decimal.NewFromFloat(s.DiscountPercent),
		DiscountAmount:  billing.FromCents(s.DiscountAmount),
		VATPercent:      decimal.NewFromFloat(s.VATPercent),
		VATAmount:       billing.FromCents(s.VATAmount),
		ShippingFee:     billing.FromCents(s.ShippingFee),
		GrandTotal:      billing.FromCents(s.GrandTotal),
		ReceivedAmount:  billing.FromCents(s.ReceivedAmount),
		DueAmount:       billing.FromCents(s.DueAmount),
		ReturnAmount:    billing.FromCents(s.ReturnAmount),
	}
}

// TotalItems is the number of units sold.
func (s *Sale) TotalItems() int {
	n := 0
	for _, d := range s.Details {
		n += d.Quantity
	}
	return n
}

func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"sub_total"`
		DiscountAmount float64 `json:"discount_amount"`
		VATAmount      float64 `json:"vat_amount"`
		ShippingFee    float64 `json:"shipping_fee"`
		GrandTotal     float64 `json:"grand_total"`
		ReceivedAmount float64 `json:"received_amount"`
		DueAmount      float64 `json:"due_amount"`
		ReturnAmount   float64 `json:"return_amount"`
		TotalItems     int     `json:"total_items"`
	}{
		Alias:          Alias(s),
		SubTotal:       float64(s.SubTotal) / 100,
		DiscountAmount: float64(s.DiscountAmount) / 100,
		VATAmount:      float64(s.VATAmount) / 100,
		ShippingFee:    float64(s.ShippingFee) / 100,
		GrandTotal:     float64(s.GrandTotal) / 100,
		ReceivedAmount: float64(s.ReceivedAmount) / 100,
		DueAmount:      float64(s.DueAmount) / 100,
		ReturnAmount:   float64(s.ReturnAmount) / 100,
		TotalItems:     s.TotalItems(),
	})
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Sale) TableName() string {
	return "sales"
}

// SaleDetail is one sold line. UnitCost is the trade price at the time of
// sale, kept for profit reporting.
type SaleDetail struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	MedicineID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"medicine_id"`
	MedicineName string         `gorm:"size:255" json:"medicine_name"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	UnitPrice    int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	UnitCost     int64          `gorm:"default:0" json:"-"`
	Total        int64          `gorm:"not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (sd SaleDetail) MarshalJSON() ([]byte, error) {
	type Alias SaleDetail
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(sd),
		UnitPrice: float64(sd.UnitPrice) / 100,
		Total:     float64(sd.Total) / 100,
	})
}

func (sd *SaleDetail) BeforeCreate(tx *gorm.DB) error {
	if sd.ID == uuid.Nil {
		sd.ID = uuid.New()
	}
	return nil
}

func (SaleDetail) TableName() string {
	return "sale_details"
}
