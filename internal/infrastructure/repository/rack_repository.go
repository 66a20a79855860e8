package repository

import (
	"context"
	"errors"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	domainRepo "github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const rackCountSelect = "racks.*, (SELECT COUNT(*) FROM medicines m WHERE m.rack_id = racks.id AND m.deleted_at IS NULL) AS medicine_count"

type rackRepository struct {
	db *gorm.DB
}

// NewRackRepository creates a new rack repository
func NewRackRepository(db *gorm.DB) domainRepo.RackRepository {
	return &rackRepository{db: db}
}

func (r *rackRepository) Create(ctx context.Context, rack *entity.Rack) error {
	return translate(r.db.WithContext(ctx).Create(rack).Error)
}

func (r *rackRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Rack, error) {
	var rack entity.Rack
	err := r.db.WithContext(ctx).Model(&entity.Rack{}).
		Select(rackCountSelect).
		Where("racks.id = ?", id).
		First(&rack).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rack, err
}

func (r *rackRepository) GetByCode(ctx context.Context, code string) (*entity.Rack, error) {
	var rack entity.Rack
	err := r.db.WithContext(ctx).First(&rack, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rack, err
}

func (r *rackRepository) Update(ctx context.Context, rack *entity.Rack) error {
	return translate(r.db.WithContext(ctx).Save(rack).Error)
}

func (r *rackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Rack{}, "id = ?", id).Error
}

func (r *rackRepository) List(ctx context.Context, params *domainRepo.RackFilterParams) ([]entity.Rack, int64, error) {
	if params == nil {
		params = &domainRepo.RackFilterParams{}
	}
	var racks []entity.Rack
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Rack{}).
		Scopes(Search(params.Search, "racks.name", "racks.code", "racks.location"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := domainRepo.ResolveSort(params.SortBy, params.SortOrder, domainRepo.RackSortFields)
	sort.Field = "racks." + sort.Field
	err := query.Select(rackCountSelect).
		Scopes(Paginate(params.Pagination), OrderBy(sort)).
		Find(&racks).Error

	return racks, total, err
}

func (r *rackRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Rack{}).Count(&total).Error
	return total, err
}
