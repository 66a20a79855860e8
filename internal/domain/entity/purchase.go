package entity

import (
	"encoding/json"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase is a stock order placed with a supplier. Stock only moves when
// it is received.
type Purchase struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	SupplierID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id"`
	PurchaseNo     string              `gorm:"size:100;uniqueIndex;not null" json:"purchase_no"`
	Date           time.Time           `gorm:"type:date;not null;index" json:"date"`
	Status         enum.PurchaseStatus `gorm:"default:0;index" json:"status"`
	SubTotal       int64               `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DiscountAmount int64               `gorm:"default:0" json:"-"`
	TaxPercent     float64             `gorm:"type:decimal(5,2);default:0" json:"tax_percent"`
	TaxAmount      int64               `gorm:"default:0" json:"-"`
	Total          int64               `gorm:"default:0" json:"-"`
	PaidAmount     int64               `gorm:"default:0" json:"-"`
	DueAmount      int64               `gorm:"default:0" json:"-"`
	Notes          *string             `gorm:"type:text" json:"notes,omitempty"`
	ReceivedAt     *time.Time          `json:"received_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	DeletedAt      gorm.DeletedAt      `gorm:"index" json:"-"`

	Supplier *Supplier        `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Details  []PurchaseDetail `gorm:"foreignKey:PurchaseID" json:"details,omitempty"`
}

func (p Purchase) MarshalJSON() ([]byte, error) {
	type Alias Purchase
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"sub_total"`
		DiscountAmount float64 `json:"discount_amount"`
		TaxAmount      float64 `json:"tax_amount"`
		Total          float64 `json:"total"`
		PaidAmount     float64 `json:"paid_amount"`
		DueAmount      float64 `json:"due_amount"`
	}{
		Alias:          Alias(p),
		SubTotal:       float64(p.SubTotal) / 100,
		DiscountAmount: float64(p.DiscountAmount) / 100,
		TaxAmount:      float64(p.TaxAmount) / 100,
		Total:          float64(p.Total) / 100,
		PaidAmount:     float64(p.PaidAmount) / 100,
		DueAmount:      float64(p.DueAmount) / 100,
	})
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseDetail is one medicine line of a purchase. MedicineName is a
// snapshot taken when the purchase is placed.
type PurchaseDetail struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"purchase_id"`
	MedicineID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"medicine_id"`
	MedicineName string         `gorm:"size:255" json:"medicine_name"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	UnitCost     int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Total        int64          `gorm:"not null" json:"-"`
	BatchNo      string         `gorm:"size:100" json:"batch_no"`
	ExpiryDate   *time.Time     `gorm:"type:date" json:"expiry_date,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (pd PurchaseDetail) MarshalJSON() ([]byte, error) {
	type Alias PurchaseDetail
	return json.Marshal(&struct {
		Alias
		UnitCost float64 `json:"unit_cost"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(pd),
		UnitCost: float64(pd.UnitCost) / 100,
		Total:    float64(pd.Total) / 100,
	})
}

func (pd *PurchaseDetail) BeforeCreate(tx *gorm.DB) error {
	if pd.ID == uuid.Nil {
		pd.ID = uuid.New()
	}
	return nil
}

func (PurchaseDetail) TableName() string {
	return "purchase_details"
}
