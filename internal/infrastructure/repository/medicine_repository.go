package repository

import (
	"context"
	"errors"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	domainRepo "github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *gorm.DB) domainRepo.MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	return translate(r.db.WithContext(ctx).Omit("Category", "Rack", "Supplier").Create(medicine).Error)
}

func (r *medicineRepository) CreateBatch(ctx context.Context, medicines []entity.Medicine) error {
	if len(medicines) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit("Category", "Rack", "Supplier").CreateInBatches(medicines, 100).Error)
}

func (r *medicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Rack").Preload("Supplier").
		First(&medicine, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &medicine, err
}

// GetByIDs retrieves multiple medicines by their IDs in a single query
func (r *medicineRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Medicine, error) {
	if len(ids) == 0 {
		return []entity.Medicine{}, nil
	}
	var medicines []entity.Medicine
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Rack").Preload("Supplier").
		Where("id IN ?", ids).
		Find(&medicines).Error
	return medicines, err
}

func (r *medicineRepository) GetByCode(ctx context.Context, code string) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := r.db.WithContext(ctx).First(&medicine, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &medicine, err
}

func (r *medicineRepository) Update(ctx context.Context, medicine *entity.Medicine) error {
	return translate(r.db.WithContext(ctx).Omit("Category", "Rack", "Supplier").Save(medicine).Error)
}

func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Medicine{}, "id = ?", id).Error
}

func (r *medicineRepository) filtered(ctx context.Context, params *domainRepo.MedicineFilterParams) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Medicine{})
	if params == nil {
		return query
	}

	query = query.Scopes(Search(params.Search, "name", "generic_name", "code", "manufacturer"))

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.RackID != nil {
		query = query.Where("rack_id = ?", *params.RackID)
	}
	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.LowStock {
		query = query.Where("quantity <= quantity_alert")
	}
	if params.ExpiringBefore != nil {
		query = query.Where("expiry_date IS NOT NULL AND expiry_date < ?", *params.ExpiringBefore)
	}
	return query
}

func (r *medicineRepository) List(ctx context.Context, params *domainRepo.MedicineFilterParams) ([]entity.Medicine, int64, error) {
	if params == nil {
		params = &domainRepo.MedicineFilterParams{}
	}
	var medicines []entity.Medicine
	var total int64

	query := r.filtered(ctx, params)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := domainRepo.ResolveSort(params.SortBy, params.SortOrder, domainRepo.MedicineSortFields)
	err := query.Scopes(Paginate(params.Pagination), OrderBy(sort)).
		Preload("Category").Preload("Rack").Preload("Supplier").
		Find(&medicines).Error

	return medicines, total, err
}

func (r *medicineRepository) Count(ctx context.Context, params *domainRepo.MedicineFilterParams) (int64, error) {
	var total int64
	err := r.filtered(ctx, params).Count(&total).Error
	return total, err
}

func (r *medicineRepository) AssignRack(ctx context.Context, medicineID uuid.UUID, rackID *uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Medicine{}).
		Where("id = ?", medicineID).
		Update("rack_id", rackID).Error
}

// AtomicDecrementBatch atomically decrements stock for multiple medicines in a single transaction.
// If any medicine has insufficient stock, the entire transaction is rolled back.
func (r *medicineRepository) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(decrements) == 0 {
		return nil, nil
	}

	var failedIDs []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		failedIDs, err = decrementStock(tx, decrements)
		if err != nil {
			return err
		}
		if len(failedIDs) > 0 {
			return errRollback
		}
		return nil
	})

	if errors.Is(err, errRollback) {
		return failedIDs, nil
	}
	return failedIDs, err
}

// AtomicIncrementBatch atomically increments stock for multiple medicines (for cancellations).
func (r *medicineRepository) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	if len(increments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return incrementStock(tx, increments)
	})
}

// decrementStock runs UPDATE medicines SET quantity = quantity - n
// WHERE id = ? AND quantity >= n for each entry and returns the rows that
// did not match.
func decrementStock(tx *gorm.DB, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID
	for id, amount := range decrements {
		result := tx.Model(&entity.Medicine{}).
			Where("id = ? AND quantity >= ?", id, amount).
			Update("quantity", gorm.Expr("quantity - ?", amount))
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			failedIDs = append(failedIDs, id)
		}
	}
	return failedIDs, nil
}

func incrementStock(tx *gorm.DB, increments map[uuid.UUID]int) error {
	for id, amount := range increments {
		if err := tx.Model(&entity.Medicine{}).
			Where("id = ?", id).
			Update("quantity", gorm.Expr("quantity + ?", amount)).Error; err != nil {
			return err
		}
	}
	return nil
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return translate(r.db.WithContext(ctx).Save(category).Error)
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context, search string) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).Model(&entity.Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM medicines m WHERE m.category_id = categories.id AND m.deleted_at IS NULL) AS medicine_count").
		Scopes(Search(search, "categories.name")).
		Order("categories.name ASC").
		Find(&categories).Error
	return categories, err
}
