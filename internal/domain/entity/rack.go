package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rack is a physical shelf or drawer medicines are stored on.
type Rack struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Code          string         `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Location      string         `gorm:"size:255" json:"location"`
	Description   string         `gorm:"type:text" json:"description"`
	Capacity      int            `gorm:"default:0" json:"capacity"`
	MedicineCount int64          `gorm:"->;-:migration" json:"medicine_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Rack) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (Rack) TableName() string {
	return "racks"
}

// HasRoom reports whether n more medicines fit. A capacity of 0 is
// unlimited.
func (r *Rack) HasRoom(n int64) bool {
	return r.Capacity <= 0 || r.MedicineCount+n <= int64(r.Capacity)
}
