package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	domainRepo "github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func saleQuantities(sale *entity.Sale) map[uuid.UUID]int {
	amounts := make(map[uuid.UUID]int, len(sale.Details))
	for _, d := range sale.Details {
		amounts[d.MedicineID] += d.Quantity
	}
	return amounts
}

// Checkout decrements stock and inserts the sale with its details in one
// transaction. Short stock rolls everything back.
func (r *saleRepository) Checkout(ctx context.Context, sale *entity.Sale) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		failedIDs, err = decrementStock(tx, saleQuantities(sale))
		if err != nil {
			return err
		}
		if len(failedIDs) > 0 {
			return errRollback
		}
		return translate(tx.Create(sale).Error)
	})

	if errors.Is(err, errRollback) {
		return failedIDs, nil
	}
	return nil, err
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).Preload("Details").First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).Preload("Details").First(&sale, "invoice_no = ?", invoiceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Omit("Details").Save(sale).Error
}

// Cancel restocks a sale once. The status guard makes a concurrent second
// cancel update no row and roll back.
func (r *saleRepository) Cancel(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Sale{}).
			Where("id = ? AND status <> ?", sale.ID, enum.SaleStatusCancelled).
			Updates(map[string]interface{}{
				"status":       sale.Status,
				"cancelled_at": sale.CancelledAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("sale %s: %w", sale.ID, domainRepo.ErrStatusChanged)
		}

		var details []entity.SaleDetail
		if err := tx.Where("sale_id = ?", sale.ID).Find(&details).Error; err != nil {
			return err
		}
		return incrementStock(tx, saleQuantities(&entity.Sale{Details: details}))
	})
}

// PayDue locks the sale row for the read-modify-write.
func (r *saleRepository) PayDue(ctx context.Context, id uuid.UUID, amountCents int64) (*entity.Sale, error) {
	var paid *entity.Sale
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sale entity.Sale
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&sale).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if sale.Status != enum.SaleStatusDue {
			return fmt.Errorf("sale %s is %s: %w", id, sale.Status, domainRepo.ErrStatusChanged)
		}

		sale.RecordPayment(amountCents)
		err = tx.Model(&entity.Sale{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":          sale.Status,
				"received_amount": sale.ReceivedAmount,
				"due_amount":      sale.DueAmount,
				"return_amount":   sale.ReturnAmount,
			}).Error
		if err != nil {
			return err
		}
		paid = &sale
		return nil
	})
	if err != nil || paid == nil {
		return nil, err
	}
	return r.GetByID(ctx, paid.ID)
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	if params == nil {
		params = &domainRepo.SaleFilterParams{}
	}
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Scopes(
			Search(params.Search, "invoice_no", "customer_name", "customer_phone"),
			DateRange("date", params.StartDate, params.EndDate),
		)

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := domainRepo.ResolveSort(params.SortBy, params.SortOrder, domainRepo.SaleSortFields)
	err := query.Scopes(Paginate(params.Pagination), OrderBy(sort)).
		Preload("Details").
		Find(&sales).Error

	return sales, total, err
}
