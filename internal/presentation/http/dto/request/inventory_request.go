package request

import "github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"

type RackRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Code        string `json:"code" binding:"omitempty,max=50"`
	Location    string `json:"location" binding:"max=255"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" binding:"min=0"`
}

type SupplierRequest struct {
	Name          string            `json:"name" binding:"required,min=2,max=255"`
	ContactPerson string            `json:"contact_person" binding:"max=255"`
	Email         *string           `json:"email" binding:"omitempty,email"`
	Phone         string            `json:"phone" binding:"max=50"`
	Address       *string           `json:"address"`
	LicenseNo     *string           `json:"license_no" binding:"omitempty,max=100"`
	Type          enum.SupplierType `json:"type"`
	Active        *bool             `json:"active"`
}

// ListRequest is the common query of simple paginated lists.
type ListRequest struct {
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
