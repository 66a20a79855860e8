package repository

import (
	"context"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
)

// MedicineRepository stores medicines. Lookups return (nil, nil) when the
// medicine does not exist.
type MedicineRepository interface {
	Create(ctx context.Context, medicine *entity.Medicine) error
	CreateBatch(ctx context.Context, medicines []entity.Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error)
	// GetByIDs loads many medicines in one query.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Medicine, error)
	GetByCode(ctx context.Context, code string) (*entity.Medicine, error)
	Update(ctx context.Context, medicine *entity.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *MedicineFilterParams) ([]entity.Medicine, int64, error)
	Count(ctx context.Context, params *MedicineFilterParams) (int64, error)
	// AssignRack moves a medicine onto a rack, or off all racks when rackID
	// is nil.
	AssignRack(ctx context.Context, medicineID uuid.UUID, rackID *uuid.UUID) error
	// AtomicDecrementBatch removes stock for several medicines at once. If
	// any medicine lacks stock nothing changes and its ID is returned.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) (failedIDs []uuid.UUID, err error)
	AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error
}

// MedicineFilterParams filters medicine lists. Zero values do not filter.
type MedicineFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	CategoryID     *uuid.UUID
	RackID         *uuid.UUID
	SupplierID     *uuid.UUID
	Type           *enum.MedicineType
	LowStock       bool
	ExpiringBefore *time.Time
	SortBy         string
	SortOrder      string
}

// CategoryRepository stores medicine categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns categories with their medicine counts, sorted by name.
	List(ctx context.Context, search string) ([]entity.Category, error)
}
