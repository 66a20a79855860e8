package service

import (
	"context"
	"errors"
	"strings"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/cache"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RackService handles rack organisation
type RackService struct {
	rackRepo     repository.RackRepository
	medicineRepo repository.MedicineRepository
	reports      cache.ReportCache
	log          *zap.Logger
}

// NewRackService creates a new rack service
func NewRackService(rackRepo repository.RackRepository, medicineRepo repository.MedicineRepository, reports cache.ReportCache, log *zap.Logger) *RackService {
	return &RackService{rackRepo: rackRepo, medicineRepo: medicineRepo, reports: reports, log: log}
}

// RackInput represents the create and update rack input
type RackInput struct {
	Name        string
	Code        string
	Location    string
	Description string
	Capacity    int
}

func (in *RackInput) validate() error {
	var fields []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if in.Capacity < 0 {
		fields = append(fields, apperror.FieldError{Field: "capacity", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields...)
	}
	return nil
}

// CreateRack creates a new rack. An empty code is derived from the name.
func (s *RackService) CreateRack(ctx context.Context, input *RackInput) (*entity.Rack, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	code := utils.NormalizeCode(input.Code)
	if code == "" {
		code = utils.NormalizeCode(utils.Slugify(input.Name))
	}
	existing, err := s.rackRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Rack code already exists")
	}

	rack := &entity.Rack{
		Name:        input.Name,
		Code:        code,
		Location:    input.Location,
		Description: input.Description,
		Capacity:    input.Capacity,
	}
	if err := s.rackRepo.Create(ctx, rack); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Rack code already exists")
		}
		return nil, err
	}
	dropCachedReports(ctx, s.reports, s.log)
	return rack, nil
}

// GetRack retrieves a rack with its medicine count
func (s *RackService) GetRack(ctx context.Context, id uuid.UUID) (*entity.Rack, error) {
	rack, err := s.rackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rack == nil {
		return nil, apperror.NewNotFoundError("Rack")
	}
	return rack, nil
}

// ListRacks lists racks with filtering
func (s *RackService) ListRacks(ctx context.Context, params *repository.RackFilterParams) (*pagination.PaginatedResult[entity.Rack], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	racks, total, err := s.rackRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(racks, pag), nil
}

// UpdateRack updates a rack. Capacity may not drop below the medicines
// already on it.
func (s *RackService) UpdateRack(ctx context.Context, id uuid.UUID, input *RackInput) (*entity.Rack, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	rack, err := s.GetRack(ctx, id)
	if err != nil {
		return nil, err
	}

	if code := utils.NormalizeCode(input.Code); code != "" && code != rack.Code {
		existing, err := s.rackRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != rack.ID {
			return nil, apperror.NewConflictError("Rack code already exists")
		}
		rack.Code = code
	}
	if input.Capacity > 0 && int64(input.Capacity) < rack.MedicineCount {
		return nil, apperror.NewConflictError("Rack holds more medicines than the new capacity")
	}

	rack.Name = input.Name
	rack.Location = input.Location
	rack.Description = input.Description
	rack.Capacity = input.Capacity

	if err := s.rackRepo.Update(ctx, rack); err != nil {
		return nil, err
	}
	dropCachedReports(ctx, s.reports, s.log)
	return rack, nil
}

// DeleteRack deletes an empty rack
func (s *RackService) DeleteRack(ctx context.Context, id uuid.UUID) error {
	rack, err := s.GetRack(ctx, id)
	if err != nil {
		return err
	}
	if rack.MedicineCount > 0 {
		return apperror.NewConflictError("Rack still has medicines assigned")
	}
	if err := s.rackRepo.Delete(ctx, id); err != nil {
		return err
	}
	dropCachedReports(ctx, s.reports, s.log)
	return nil
}

// ListRackMedicines lists the medicines stored on a rack
func (s *RackService) ListRackMedicines(ctx context.Context, id uuid.UUID, params *repository.MedicineFilterParams) (*pagination.PaginatedResult[entity.Medicine], error) {
	if _, err := s.GetRack(ctx, id); err != nil {
		return nil, err
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.RackID = &id

	medicines, total, err := s.medicineRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(medicines, pag), nil
}

// AssignMedicine places a medicine on a rack, or takes it off its rack when
// rackID is nil.
func (s *RackService) AssignMedicine(ctx context.Context, medicineID uuid.UUID, rackID *uuid.UUID) (*entity.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}

	if rackID != nil {
		rack, err := s.GetRack(ctx, *rackID)
		if err != nil {
			return nil, err
		}
		alreadyThere := medicine.RackID != nil && *medicine.RackID == rack.ID
		if !alreadyThere && !rack.HasRoom(1) {
			return nil, apperror.NewConflictError("Rack is full")
		}
	}

	if err := s.medicineRepo.AssignRack(ctx, medicineID, rackID); err != nil {
		return nil, err
	}
	s.log.Info("medicine rack assigned",
		zap.String("medicine_id", medicineID.String()),
		zap.Bool("unassigned", rackID == nil),
	)
	dropCachedReports(ctx, s.reports, s.log)
	return s.medicineRepo.GetByID(ctx, medicineID)
}
