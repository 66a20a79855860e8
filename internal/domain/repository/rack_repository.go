package repository

import (
	"context"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
)

// RackRepository stores racks. Returned racks carry MedicineCount.
type RackRepository interface {
	Create(ctx context.Context, rack *entity.Rack) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Rack, error)
	GetByCode(ctx context.Context, code string) (*entity.Rack, error)
	Update(ctx context.Context, rack *entity.Rack) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *RackFilterParams) ([]entity.Rack, int64, error)
	Count(ctx context.Context) (int64, error)
}

type RackFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	SortBy     string
	SortOrder  string
}
