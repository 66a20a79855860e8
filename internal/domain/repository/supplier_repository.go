package repository

import (
	"context"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *SupplierFilterParams) ([]entity.Supplier, int64, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type SupplierFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Type       *enum.SupplierType
	Active     *bool
	SortBy     string
	SortOrder  string
}
