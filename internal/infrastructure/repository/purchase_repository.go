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
)

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) domainRepo.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	return translate(r.db.WithContext(ctx).Omit("Supplier").Create(purchase).Error)
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var purchase entity.Purchase
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("Details").
		First(&purchase, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &purchase, err
}

func (r *purchaseRepository) GetByPurchaseNo(ctx context.Context, purchaseNo string) (*entity.Purchase, error) {
	var purchase entity.Purchase
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("Details").
		First(&purchase, "purchase_no = ?", purchaseNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &purchase, err
}

func (r *purchaseRepository) Update(ctx context.Context, purchase *entity.Purchase) error {
	return translate(r.db.WithContext(ctx).Omit("Supplier", "Details").Save(purchase).Error)
}

func (r *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.PurchaseDetail{}, "purchase_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Purchase{}, "id = ?", id).Error
	})
}

func (r *purchaseRepository) List(ctx context.Context, params *domainRepo.PurchaseFilterParams) ([]entity.Purchase, int64, error) {
	if params == nil {
		params = &domainRepo.PurchaseFilterParams{}
	}
	var purchases []entity.Purchase
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Purchase{}).
		Joins("LEFT JOIN suppliers ON suppliers.id = purchases.supplier_id").
		Scopes(
			Search(params.Search, "purchases.purchase_no", "suppliers.name"),
			DateRange("purchases.date", params.StartDate, params.EndDate),
		)

	if params.Status != nil {
		query = query.Where("purchases.status = ?", *params.Status)
	}
	if params.SupplierID != nil {
		query = query.Where("purchases.supplier_id = ?", *params.SupplierID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := domainRepo.ResolveSort(params.SortBy, params.SortOrder, domainRepo.PurchaseSortFields)
	sort.Field = "purchases." + sort.Field
	err := query.Select("purchases.*").
		Scopes(Paginate(params.Pagination), OrderBy(sort)).
		Preload("Supplier").Preload("Details").
		Find(&purchases).Error

	return purchases, total, err
}

func (r *purchaseRepository) Count(ctx context.Context, status *enum.PurchaseStatus) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&entity.Purchase{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Count(&total).Error
	return total, err
}

// Receive flips a pending purchase to received and books its stock. The
// status guard in the WHERE clause makes a concurrent second receive a no-op
// that rolls back.
func (r *purchaseRepository) Receive(ctx context.Context, purchase *entity.Purchase, receipts []domainRepo.StockReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Purchase{}).
			Where("id = ? AND status = ?", purchase.ID, enum.PurchaseStatusPending).
			Updates(map[string]interface{}{
				"status":      purchase.Status,
				"received_at": purchase.ReceivedAt,
				"paid_amount": purchase.PaidAmount,
				"due_amount":  purchase.DueAmount,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("purchase %s is not pending", purchase.ID)
		}

		for _, rc := range receipts {
			m := rc.Medicine
			err := tx.Model(&entity.Medicine{}).
				Where("id = ?", m.ID).
				Updates(map[string]interface{}{
					"quantity":      gorm.Expr("quantity + ?", rc.Quantity),
					"tp_unit":       m.TPUnit,
					"tp_strip":      m.TPStrip,
					"tp_box":        m.TPBox,
					"profit_margin": m.ProfitMargin,
					"batch_no":      m.BatchNo,
					"expiry_date":   m.ExpiryDate,
					"supplier_id":   m.SupplierID,
				}).Error
			if err != nil {
				return fmt.Errorf("receive medicine %s: %w", m.ID, err)
			}
		}
		return nil
	})
}
