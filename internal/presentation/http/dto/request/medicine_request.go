package request

import (
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/google/uuid"
)

// CreateMedicineRequest represents a medicine creation request
type CreateMedicineRequest struct {
	CategoryID    *uuid.UUID        `json:"category_id"`
	RackID        *uuid.UUID        `json:"rack_id"`
	SupplierID    *uuid.UUID        `json:"supplier_id"`
	Name          string            `json:"name" binding:"required,min=2,max=255"`
	GenericName   string            `json:"generic_name" binding:"max=255"`
	Code          string            `json:"code" binding:"omitempty,max=100"`
	Type          enum.MedicineType `json:"type"`
	Strength      string            `json:"strength" binding:"max=100"`
	Manufacturer  string            `json:"manufacturer" binding:"max=255"`
	Quantity      int               `json:"quantity" binding:"min=0"`
	QuantityAlert *int              `json:"quantity_alert" binding:"omitempty,min=0"`
	BatchNo       string            `json:"batch_no" binding:"max=100"`
	ExpiryDate    *time.Time        `json:"expiry_date"`
	StripSize     int               `json:"strip_size" binding:"min=0"`
	BoxSize       int               `json:"box_size" binding:"min=0"`
	TPUnit        float64           `json:"tp_unit" binding:"min=0"`
	MRPUnit       float64           `json:"mrp_unit" binding:"min=0"`
	Notes         *string           `json:"notes"`
}

// UpdateMedicineRequest represents a medicine update request
type UpdateMedicineRequest struct {
	CategoryID    *uuid.UUID         `json:"category_id"`
	RackID        *uuid.UUID         `json:"rack_id"`
	SupplierID    *uuid.UUID         `json:"supplier_id"`
	Name          *string            `json:"name" binding:"omitempty,min=2,max=255"`
	GenericName   *string            `json:"generic_name" binding:"omitempty,max=255"`
	Code          *string            `json:"code" binding:"omitempty,min=1,max=100"`
	Type          *enum.MedicineType `json:"type"`
	Strength      *string            `json:"strength" binding:"omitempty,max=100"`
	Manufacturer  *string            `json:"manufacturer" binding:"omitempty,max=255"`
	Quantity      *int               `json:"quantity" binding:"omitempty,min=0"`
	QuantityAlert *int               `json:"quantity_alert" binding:"omitempty,min=0"`
	BatchNo       *string            `json:"batch_no" binding:"omitempty,max=100"`
	ExpiryDate    *time.Time         `json:"expiry_date"`
	StripSize     *int               `json:"strip_size" binding:"omitempty,min=0"`
	BoxSize       *int               `json:"box_size" binding:"omitempty,min=0"`
	TPUnit        *float64           `json:"tp_unit" binding:"omitempty,min=0"`
	MRPUnit       *float64           `json:"mrp_unit" binding:"omitempty,min=0"`
	Notes         *string            `json:"notes"`
}

// MedicineFilterRequest represents medicine filter parameters
type MedicineFilterRequest struct {
	Search       string `form:"search"`
	CategoryID   string `form:"category_id"`
	RackID       string `form:"rack_id"`
	SupplierID   string `form:"supplier_id"`
	Type         string `form:"type"`
	LowStock     bool   `form:"low_stock"`
	ExpiringDays *int   `form:"expiring_days" binding:"omitempty,min=0"`
	SortBy       string `form:"sort_by"`
	SortOrder    string `form:"sort_order"`
	Page         int    `form:"page"`
	PerPage      int    `form:"per_page"`
}

// PricingPreviewRequest asks for the derived pack prices of a medicine form.
type PricingPreviewRequest struct {
	Type      enum.MedicineType `json:"type"`
	StripSize int               `json:"strip_size" binding:"min=0"`
	BoxSize   int               `json:"box_size" binding:"min=0"`
	TPUnit    float64           `json:"tp_unit" binding:"min=0"`
	MRPUnit   float64           `json:"mrp_unit" binding:"min=0"`
}

// ImportMedicinesRequest carries a batch of catalog records.
type ImportMedicinesRequest struct {
	Records []entity.CatalogRecord `json:"records" binding:"required,min=1,max=1000"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Description string `json:"description"`
}

type AssignRackRequest struct {
	RackID *uuid.UUID `json:"rack_id"`
}
