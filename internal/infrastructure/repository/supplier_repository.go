package repository

import (
	"context"
	"errors"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	domainRepo "github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type supplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) domainRepo.SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	return translate(r.db.WithContext(ctx).Create(supplier).Error)
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &supplier, err
}

func (r *supplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	return translate(r.db.WithContext(ctx).Save(supplier).Error)
}

func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Supplier{}, "id = ?", id).Error
}

func (r *supplierRepository) List(ctx context.Context, params *domainRepo.SupplierFilterParams) ([]entity.Supplier, int64, error) {
	if params == nil {
		params = &domainRepo.SupplierFilterParams{}
	}
	var suppliers []entity.Supplier
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Supplier{}).
		Scopes(Search(params.Search, "name", "contact_person", "phone", "email"))

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := domainRepo.ResolveSort(params.SortBy, params.SortOrder, domainRepo.SupplierSortFields)
	err := query.Scopes(Paginate(params.Pagination), OrderBy(sort)).
		Find(&suppliers).Error

	return suppliers, total, err
}

func (r *supplierRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&entity.Supplier{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Count(&total).Error
	return total, err
}
