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

// Medicine is one stock keeping unit. Quantity counts single units
// (tablets, bottles, tubes), never strips or boxes.
type Medicine struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID    *uuid.UUID        `gorm:"type:uuid;index" json:"category_id,omitempty"`
	RackID        *uuid.UUID        `gorm:"type:uuid;index" json:"rack_id,omitempty"`
	SupplierID    *uuid.UUID        `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Name          string            `gorm:"size:255;not null;index" json:"name"`
	GenericName   string            `gorm:"size:255;index" json:"generic_name"`
	Slug          string            `gorm:"size:255;not null" json:"slug"`
	Code          string            `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Type          enum.MedicineType `gorm:"size:20;not null;default:'other'" json:"type"`
	Strength      string            `gorm:"size:100" json:"strength"`
	Manufacturer  string            `gorm:"size:255" json:"manufacturer"`
	Quantity      int               `gorm:"default:0" json:"quantity"`
	QuantityAlert int               `gorm:"default:0" json:"quantity_alert"`
	BatchNo       string            `gorm:"size:100" json:"batch_no"`
	ExpiryDate    *time.Time        `gorm:"type:date;index" json:"expiry_date,omitempty"`
	StripSize     int               `gorm:"default:0" json:"strip_size"`
	BoxSize       int               `gorm:"default:0" json:"box_size"`
	TPUnit        int64             `gorm:"default:0" json:"tp_unit"`  // Stored in cents
	TPStrip       int64             `gorm:"default:0" json:"tp_strip"` // Stored in cents
	TPBox         int64             `gorm:"default:0" json:"tp_box"`   // Stored in cents
	MRPUnit       int64             `gorm:"default:0" json:"mrp_unit"`
	MRPStrip      int64             `gorm:"default:0" json:"mrp_strip"`
	MRPBox        int64             `gorm:"default:0" json:"mrp_box"`
	ProfitMargin  float64           `gorm:"type:decimal(7,2);default:0" json:"profit_margin"`
	Notes         *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Rack     *Rack     `gorm:"foreignKey:RackID" json:"rack,omitempty"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (Medicine) TableName() string {
	return "medicines"
}

// ApplyPricing stores the trade (cost) and retail unit prices and derives
// the strip, box and margin fields from them.
func (m *Medicine) ApplyPricing(tpUnit, mrpUnit decimal.Decimal) {
	tp, mrp := m.packPrices(tpUnit), m.packPrices(mrpUnit)

	m.TPUnit = billing.ToCents(tp.Unit)
	m.TPStrip = billing.ToCents(tp.Strip)
	m.TPBox = billing.ToCents(tp.Box)
	m.MRPUnit = billing.ToCents(mrp.Unit)
	m.MRPStrip = billing.ToCents(mrp.Strip)
	m.MRPBox = billing.ToCents(mrp.Box)
	m.ProfitMargin = billing.ProfitMargin(tpUnit, mrpUnit).InexactFloat64()
}

func (m *Medicine) packPrices(unit decimal.Decimal) billing.PackPrice {
	return DerivePackPrice(m.Type, unit, m.StripSize, m.BoxSize)
}

// DerivePackPrice applies strip and box pricing to packaged dosage forms
// with known pack sizes and flat pricing to everything else.
func DerivePackPrice(t enum.MedicineType, unit decimal.Decimal, stripSize, boxSize int) billing.PackPrice {
	if t.IsPackaged() && stripSize > 0 && boxSize > 0 {
		return billing.PackPricing(unit, stripSize, boxSize)
	}
	return billing.FlatPricing(unit)
}

func (m *Medicine) TPUnitPrice() decimal.Decimal  { return billing.FromCents(m.TPUnit) }
func (m *Medicine) MRPUnitPrice() decimal.Decimal { return billing.FromCents(m.MRPUnit) }

// IsLowStock is true once quantity falls to the alert level.
func (m *Medicine) IsLowStock() bool {
	return m.Quantity <= m.QuantityAlert
}

// ExpiresBefore reports whether the medicine has an expiry date before t.
func (m *Medicine) ExpiresBefore(t time.Time) bool {
	return m.ExpiryDate != nil && m.ExpiryDate.Before(t)
}

func (m Medicine) MarshalJSON() ([]byte, error) {
	type Alias Medicine
	return json.Marshal(&struct {
		Alias
		TPUnit   float64 `json:"tp_unit"`
		TPStrip  float64 `json:"tp_strip"`
		TPBox    float64 `json:"tp_box"`
		MRPUnit  float64 `json:"mrp_unit"`
		MRPStrip float64 `json:"mrp_strip"`
		MRPBox   float64 `json:"mrp_box"`
		LowStock bool    `json:"low_stock"`
	}{
		Alias:    Alias(m),
		TPUnit:   float64(m.TPUnit) / 100,
		TPStrip:  float64(m.TPStrip) / 100,
		TPBox:    float64(m.TPBox) / 100,
		MRPUnit:  float64(m.MRPUnit) / 100,
		MRPStrip: float64(m.MRPStrip) / 100,
		MRPBox:   float64(m.MRPBox) / 100,
		LowStock: m.IsLowStock(),
	})
}

// Category groups medicines by therapeutic class.
type Category struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Slug          string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description   string         `gorm:"type:text" json:"description"`
	MedicineCount int64          `gorm:"->;-:migration" json:"medicine_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Category) TableName() string {
	return "categories"
}
