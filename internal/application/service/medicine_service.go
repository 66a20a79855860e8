package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/billing"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/cache"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MedicineService handles inventory operations
type MedicineService struct {
	medicineRepo      repository.MedicineRepository
	categoryRepo      repository.CategoryRepository
	rackRepo          repository.RackRepository
	supplierRepo      repository.SupplierRepository
	reports           cache.ReportCache
	lowStockDefault   int
	expiryWarningDays int
	log               *zap.Logger
}

// NewMedicineService creates a new medicine service
func NewMedicineService(
	repos *repository.Repositories,
	reports cache.ReportCache,
	lowStockDefault int,
	expiryWarningDays int,
	log *zap.Logger,
) *MedicineService {
	return &MedicineService{
		medicineRepo:      repos.Medicines,
		categoryRepo:      repos.Categories,
		rackRepo:          repos.Racks,
		supplierRepo:      repos.Suppliers,
		reports:           reports,
		lowStockDefault:   lowStockDefault,
		expiryWarningDays: expiryWarningDays,
		log:               log,
	}
}

// CreateMedicineInput represents the create medicine input
type CreateMedicineInput struct {
	CategoryID    *uuid.UUID
	RackID        *uuid.UUID
	SupplierID    *uuid.UUID
	Name          string
	GenericName   string
	Code          string
	Type          enum.MedicineType
	Strength      string
	Manufacturer  string
	Quantity      int
	QuantityAlert *int
	BatchNo       string
	ExpiryDate    *time.Time
	StripSize     int
	BoxSize       int
	TPUnit        decimal.Decimal
	MRPUnit       decimal.Decimal
	Notes         *string
}

// CreateMedicine creates a new medicine and derives its pack prices
func (s *MedicineService) CreateMedicine(ctx context.Context, input *CreateMedicineInput) (*entity.Medicine, error) {
	if err := validateStockFields(input.Quantity, input.StripSize, input.BoxSize, input.TPUnit, input.MRPUnit); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, input.CategoryID, input.RackID, input.SupplierID); err != nil {
		return nil, err
	}

	code := utils.NormalizeCode(input.Code)
	if code == "" {
		code = utils.GenerateMedicineCode()
	}
	existing, err := s.medicineRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Medicine code already exists")
	}

	alert := s.lowStockDefault
	if input.QuantityAlert != nil {
		alert = *input.QuantityAlert
	}

	medicine := &entity.Medicine{
		CategoryID:    input.CategoryID,
		RackID:        input.RackID,
		SupplierID:    input.SupplierID,
		Name:          input.Name,
		GenericName:   input.GenericName,
		Slug:          utils.Slugify(input.Name + " " + input.Strength),
		Code:          code,
		Type:          input.Type,
		Strength:      input.Strength,
		Manufacturer:  input.Manufacturer,
		Quantity:      input.Quantity,
		QuantityAlert: alert,
		BatchNo:       input.BatchNo,
		ExpiryDate:    input.ExpiryDate,
		StripSize:     input.StripSize,
		BoxSize:       input.BoxSize,
		Notes:         input.Notes,
	}
	medicine.ApplyPricing(input.TPUnit, input.MRPUnit)

	if err := s.medicineRepo.Create(ctx, medicine); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Medicine code already exists")
		}
		return nil, err
	}

	dropCachedReports(ctx, s.reports, s.log)
	return s.medicineRepo.GetByID(ctx, medicine.ID)
}

// GetMedicine retrieves a medicine by ID
func (s *MedicineService) GetMedicine(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}
	return medicine, nil
}

// ListMedicines lists medicines with filtering
func (s *MedicineService) ListMedicines(ctx context.Context, params *repository.MedicineFilterParams) (*pagination.PaginatedResult[entity.Medicine], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	medicines, total, err := s.medicineRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(medicines, pag), nil
}

// ListLowStock lists medicines at or below their alert quantity, fewest first
func (s *MedicineService) ListLowStock(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Medicine], error) {
	return s.ListMedicines(ctx, &repository.MedicineFilterParams{
		Pagination: params,
		LowStock:   true,
		SortBy:     "quantity",
		SortOrder:  "asc",
	})
}

// ListExpiring lists medicines expiring within days (the configured warning
// window when days <= 0), soonest first
func (s *MedicineService) ListExpiring(ctx context.Context, days int, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Medicine], error) {
	if days <= 0 {
		days = s.expiryWarningDays
	}
	before := time.Now().AddDate(0, 0, days)
	return s.ListMedicines(ctx, &repository.MedicineFilterParams{
		Pagination:     params,
		ExpiringBefore: &before,
		SortBy:         "expiry_date",
		SortOrder:      "asc",
	})
}

// UpdateMedicineInput represents the update medicine input. Nil fields are
// left unchanged.
type UpdateMedicineInput struct {
	ID            uuid.UUID
	CategoryID    *uuid.UUID
	RackID        *uuid.UUID
	SupplierID    *uuid.UUID
	Name          *string
	GenericName   *string
	Code          *string
	Type          *enum.MedicineType
	Strength      *string
	Manufacturer  *string
	Quantity      *int
	QuantityAlert *int
	BatchNo       *string
	ExpiryDate    *time.Time
	StripSize     *int
	BoxSize       *int
	TPUnit        *decimal.Decimal
	MRPUnit       *decimal.Decimal
	Notes         *string
}

// UpdateMedicine updates a medicine. Prices are re-derived on every update
// so strip, box and margin always follow the unit prices and pack sizes.
func (s *MedicineService) UpdateMedicine(ctx context.Context, input *UpdateMedicineInput) (*entity.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}
	if err := s.checkReferences(ctx, input.CategoryID, input.RackID, input.SupplierID); err != nil {
		return nil, err
	}

	if input.Code != nil {
		code := utils.NormalizeCode(*input.Code)
		if code != "" && code != medicine.Code {
			existing, err := s.medicineRepo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != medicine.ID {
				return nil, apperror.NewConflictError("Medicine code already exists")
			}
			medicine.Code = code
		}
	}

	if input.CategoryID != nil {
		medicine.CategoryID = input.CategoryID
	}
	if input.RackID != nil {
		medicine.RackID = input.RackID
	}
	if input.SupplierID != nil {
		medicine.SupplierID = input.SupplierID
	}
	if input.Name != nil {
		medicine.Name = *input.Name
	}
	if input.GenericName != nil {
		medicine.GenericName = *input.GenericName
	}
	if input.Type != nil {
		medicine.Type = *input.Type
	}
	if input.Strength != nil {
		medicine.Strength = *input.Strength
	}
	if input.Manufacturer != nil {
		medicine.Manufacturer = *input.Manufacturer
	}
	if input.Quantity != nil {
		medicine.Quantity = *input.Quantity
	}
	if input.QuantityAlert != nil {
		medicine.QuantityAlert = *input.QuantityAlert
	}
	if input.BatchNo != nil {
		medicine.BatchNo = *input.BatchNo
	}
	if input.ExpiryDate != nil {
		medicine.ExpiryDate = input.ExpiryDate
	}
	if input.StripSize != nil {
		medicine.StripSize = *input.StripSize
	}
	if input.BoxSize != nil {
		medicine.BoxSize = *input.BoxSize
	}
	if input.Notes != nil {
		medicine.Notes = input.Notes
	}
	medicine.Slug = utils.Slugify(medicine.Name + " " + medicine.Strength)

	tp, mrp := medicine.TPUnitPrice(), medicine.MRPUnitPrice()
	if input.TPUnit != nil {
		tp = *input.TPUnit
	}
	if input.MRPUnit != nil {
		mrp = *input.MRPUnit
	}
	if err := validateStockFields(medicine.Quantity, medicine.StripSize, medicine.BoxSize, tp, mrp); err != nil {
		return nil, err
	}
	medicine.ApplyPricing(tp, mrp)

	medicine.Category, medicine.Rack, medicine.Supplier = nil, nil, nil
	if err := s.medicineRepo.Update(ctx, medicine); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Medicine code already exists")
		}
		return nil, err
	}

	dropCachedReports(ctx, s.reports, s.log)
	return s.medicineRepo.GetByID(ctx, medicine.ID)
}

// DeleteMedicine deletes a medicine
func (s *MedicineService) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if medicine == nil {
		return apperror.NewNotFoundError("Medicine")
	}
	if err := s.medicineRepo.Delete(ctx, id); err != nil {
		return err
	}
	dropCachedReports(ctx, s.reports, s.log)
	return nil
}

// PricingPreviewInput is what a medicine form has filled in so far.
type PricingPreviewInput struct {
	Type      enum.MedicineType
	StripSize int
	BoxSize   int
	TPUnit    decimal.Decimal
	MRPUnit   decimal.Decimal
}

// PricingPreview is the auto-calculated part of a medicine form.
type PricingPreview struct {
	TP           billing.PackPrice `json:"tp"`
	MRP          billing.PackPrice `json:"mrp"`
	ProfitMargin decimal.Decimal   `json:"profit_margin"`
	Packaged     bool              `json:"packaged"`
}

// PreviewPricing derives strip, box and margin without storing anything.
func (s *MedicineService) PreviewPricing(input *PricingPreviewInput) (*PricingPreview, error) {
	if err := validateStockFields(0, input.StripSize, input.BoxSize, input.TPUnit, input.MRPUnit); err != nil {
		return nil, err
	}
	return &PricingPreview{
		TP:           entity.DerivePackPrice(input.Type, input.TPUnit, input.StripSize, input.BoxSize),
		MRP:          entity.DerivePackPrice(input.Type, input.MRPUnit, input.StripSize, input.BoxSize),
		ProfitMargin: billing.ProfitMargin(input.TPUnit, input.MRPUnit),
		Packaged:     input.Type.IsPackaged() && input.StripSize > 0 && input.BoxSize > 0,
	}, nil
}

// ImportRowError reports why one import row was skipped.
type ImportRowError struct {
	Row     int    `json:"row"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Created int              `json:"created"`
	Failed  []ImportRowError `json:"failed"`
}

// ImportMedicines normalizes and stores catalog records. Bad rows are
// reported and skipped; good rows are stored.
func (s *MedicineService) ImportMedicines(ctx context.Context, records []entity.CatalogRecord) (*ImportResult, error) {
	result := &ImportResult{Failed: []ImportRowError{}}
	seen := make(map[string]bool, len(records))

	for i, record := range records {
		row := i + 1
		draft, err := record.Normalize()
		if err != nil {
			result.Failed = append(result.Failed, ImportRowError{Row: row, Message: rowMessage(err)})
			continue
		}

		code := utils.NormalizeCode(draft.Code)
		if code == "" {
			code = utils.GenerateMedicineCode()
		}
		if seen[code] {
			result.Failed = append(result.Failed, ImportRowError{Row: row, Code: code, Message: "duplicate code in import"})
			continue
		}
		seen[code] = true

		medicine := &entity.Medicine{
			Name:          draft.Name,
			GenericName:   draft.GenericName,
			Slug:          utils.Slugify(draft.Name + " " + draft.Strength),
			Code:          code,
			Type:          draft.Type,
			Strength:      draft.Strength,
			Manufacturer:  draft.Manufacturer,
			Quantity:      draft.Quantity,
			QuantityAlert: draft.QuantityAlert,
			BatchNo:       draft.BatchNo,
			ExpiryDate:    draft.ExpiryDate,
			StripSize:     draft.StripSize,
			BoxSize:       draft.BoxSize,
		}
		if medicine.QuantityAlert == 0 {
			medicine.QuantityAlert = s.lowStockDefault
		}
		medicine.ApplyPricing(draft.TPUnit, draft.MRPUnit)

		if err := s.medicineRepo.Create(ctx, medicine); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				result.Failed = append(result.Failed, ImportRowError{Row: row, Code: code, Message: "medicine code already exists"})
				continue
			}
			return nil, fmt.Errorf("import row %d: %w", row, err)
		}
		result.Created++
	}

	s.log.Info("medicine import finished",
		zap.Int("rows", len(records)),
		zap.Int("created", result.Created),
		zap.Int("failed", len(result.Failed)),
	)
	if result.Created > 0 {
		dropCachedReports(ctx, s.reports, s.log)
	}
	return result, nil
}

func rowMessage(err error) string {
	appErr := apperror.GetAppError(err)
	if len(appErr.Errors) == 0 {
		return appErr.Message
	}
	msg := appErr.Message
	for _, fe := range appErr.Errors {
		msg += "; " + fe.Field + ": " + fe.Message
	}
	return msg
}

func (s *MedicineService) checkReferences(ctx context.Context, categoryID, rackID, supplierID *uuid.UUID) error {
	if categoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return apperror.NewNotFoundError("Category")
		}
	}
	if rackID != nil {
		rack, err := s.rackRepo.GetByID(ctx, *rackID)
		if err != nil {
			return err
		}
		if rack == nil {
			return apperror.NewNotFoundError("Rack")
		}
	}
	if supplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *supplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return apperror.NewNotFoundError("Supplier")
		}
	}
	return nil
}

func validateStockFields(quantity, stripSize, boxSize int, tp, mrp decimal.Decimal) error {
	var fields []apperror.FieldError
	if quantity < 0 {
		fields = append(fields, apperror.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if stripSize < 0 {
		fields = append(fields, apperror.FieldError{Field: "strip_size", Message: "must not be negative"})
	}
	if boxSize < 0 {
		fields = append(fields, apperror.FieldError{Field: "box_size", Message: "must not be negative"})
	}
	if tp.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "tp_unit", Message: "must not be negative"})
	}
	if mrp.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "mrp_unit", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields...)
	}
	return nil
}
