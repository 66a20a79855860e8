package repository

import (
	"context"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
)

// StockReceipt is what receiving one purchase line does to a medicine:
// Medicine carries the repriced fields and batch, Quantity is added to
// stock.
type StockReceipt struct {
	Medicine *entity.Medicine
	Quantity int
}

type PurchaseRepository interface {
	// Create stores the purchase together with its details.
	Create(ctx context.Context, purchase *entity.Purchase) error
	// GetByID loads the purchase with supplier and details.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	GetByPurchaseNo(ctx context.Context, purchaseNo string) (*entity.Purchase, error)
	Update(ctx context.Context, purchase *entity.Purchase) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *PurchaseFilterParams) ([]entity.Purchase, int64, error)
	Count(ctx context.Context, status *enum.PurchaseStatus) (int64, error)
	// Receive marks the purchase received and applies the receipts in the
	// same transaction.
	Receive(ctx context.Context, purchase *entity.Purchase, receipts []StockReceipt) error
}

type PurchaseFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.PurchaseStatus
	SupplierID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
