package repository

import (
	"context"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
)

type SaleRepository interface {
	// Checkout takes each detail's quantity out of stock and stores the
	// sale in one transaction. When any medicine lacks stock nothing is
	// written and the short medicine IDs are returned.
	Checkout(ctx context.Context, sale *entity.Sale) (failedIDs []uuid.UUID, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error)
	// Update saves the sale header. Details are immutable.
	Update(ctx context.Context, sale *entity.Sale) error
	// Cancel saves the cancelled sale and returns its quantities to stock
	// in one transaction. It fails with ErrStatusChanged when the stored
	// sale is already cancelled.
	Cancel(ctx context.Context, sale *entity.Sale) error
	// PayDue applies a payment to the stored sale and returns the result.
	// It fails with ErrStatusChanged when the stored sale has no due, and
	// returns (nil, nil) for an unknown sale.
	PayDue(ctx context.Context, id uuid.UUID, amountCents int64) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
}

type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.SaleStatus
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
