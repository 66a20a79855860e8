package service

import (
	"context"
	"strings"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/cache"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related operations
type SupplierService struct {
	supplierRepo repository.SupplierRepository
	purchaseRepo repository.PurchaseRepository
	reports      cache.ReportCache
	log          *zap.Logger
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo repository.SupplierRepository, purchaseRepo repository.PurchaseRepository, reports cache.ReportCache, log *zap.Logger) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo, purchaseRepo: purchaseRepo, reports: reports, log: log}
}

// SupplierInput represents the create and update supplier input
type SupplierInput struct {
	Name          string
	ContactPerson string
	Email         *string
	Phone         string
	Address       *string
	LicenseNo     *string
	Type          enum.SupplierType
	Active        *bool
}

// CreateSupplier creates a new supplier. Suppliers start active.
func (s *SupplierService) CreateSupplier(ctx context.Context, input *SupplierInput) (*entity.Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "name", Message: "is required"})
	}
	supplier := &entity.Supplier{Active: true}
	input.apply(supplier)

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	dropCachedReports(ctx, s.reports, s.log)
	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// ListSuppliers lists suppliers with filtering
func (s *SupplierService) ListSuppliers(ctx context.Context, params *repository.SupplierFilterParams) (*pagination.PaginatedResult[entity.Supplier], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	suppliers, total, err := s.supplierRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}

// UpdateSupplier updates a supplier
func (s *SupplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, input *SupplierInput) (*entity.Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "name", Message: "is required"})
	}
	supplier, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	input.apply(supplier)

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	dropCachedReports(ctx, s.reports, s.log)
	return supplier, nil
}

// DeleteSupplier deletes a supplier with no purchase history
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSupplier(ctx, id); err != nil {
		return err
	}

	_, purchases, err := s.purchaseRepo.List(ctx, &repository.PurchaseFilterParams{
		SupplierID: &id,
		Pagination: pagination.NewParams(1, 1),
	})
	if err != nil {
		return err
	}
	if purchases > 0 {
		return apperror.NewConflictError("Supplier has purchase history; deactivate it instead")
	}

	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return err
	}
	dropCachedReports(ctx, s.reports, s.log)
	return nil
}

func (in *SupplierInput) apply(supplier *entity.Supplier) {
	supplier.Name = in.Name
	supplier.ContactPerson = in.ContactPerson
	supplier.Email = in.Email
	supplier.Phone = in.Phone
	supplier.Address = in.Address
	supplier.LicenseNo = in.LicenseNo
	supplier.Type = in.Type
	if in.Active != nil {
		supplier.Active = *in.Active
	}
	supplier.Tidy()
}
