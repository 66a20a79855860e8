package entity

import (
	"strings"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier is a distributor, wholesaler or manufacturer medicines are
// bought from. Inactive suppliers keep their purchase history but take no
// new purchases.
type Supplier struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string            `gorm:"size:255;not null;index" json:"name"`
	Type          enum.SupplierType `gorm:"size:20;not null;default:'distributor';index" json:"type"`
	ContactPerson string            `gorm:"size:255" json:"contact_person"`
	Phone         string            `gorm:"size:50;index" json:"phone"`
	Email         *string           `gorm:"size:255" json:"email,omitempty"`
	Address       *string           `gorm:"type:text" json:"address,omitempty"`
	LicenseNo     *string           `gorm:"size:100;uniqueIndex" json:"license_no,omitempty"`
	Active        bool              `gorm:"not null;default:true;index" json:"active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Tidy()
	return nil
}

func (Supplier) TableName() string {
	return "suppliers"
}

// Tidy trims the text fields, lowercases the email and clears optional
// fields left blank.
func (s *Supplier) Tidy() {
	s.Name = strings.TrimSpace(s.Name)
	s.ContactPerson = strings.TrimSpace(s.ContactPerson)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Email = blankToNil(s.Email)
	if s.Email != nil {
		lower := strings.ToLower(*s.Email)
		s.Email = &lower
	}
	s.Address = blankToNil(s.Address)
	s.LicenseNo = blankToNil(s.LicenseNo)
	if s.Type == "" {
		s.Type = enum.SupplierTypeDistributor
	}
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
