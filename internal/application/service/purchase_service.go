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

// PurchaseService handles purchase-related operations
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
	medicineRepo repository.MedicineRepository
	supplierRepo repository.SupplierRepository
	reports      cache.ReportCache
	log          *zap.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(repos *repository.Repositories, reports cache.ReportCache, log *zap.Logger) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: repos.Purchases,
		medicineRepo: repos.Medicines,
		supplierRepo: repos.Suppliers,
		reports:      reports,
		log:          log,
	}
}

// PurchaseItemInput represents an item in a purchase
type PurchaseItemInput struct {
	MedicineID uuid.UUID
	Quantity   int
	UnitCost   decimal.Decimal
	BatchNo    string
	ExpiryDate *time.Time
}

// CreatePurchaseInput represents the create purchase input
type CreatePurchaseInput struct {
	SupplierID     uuid.UUID
	Date           time.Time
	DiscountAmount decimal.Decimal
	TaxPercent     decimal.Decimal
	PaidAmount     decimal.Decimal
	Notes          *string
	Items          []PurchaseItemInput
}

// PurchaseTotals is the money side of a purchase before it is stored.
type PurchaseTotals struct {
	SubTotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Paid     decimal.Decimal
	Due      decimal.Decimal
}

// ComputePurchaseTotals prices a purchase. Tax applies after the discount;
// paying more than the total leaves no due.
func ComputePurchaseTotals(items []PurchaseItemInput, discount, taxPercent, paid decimal.Decimal) PurchaseTotals {
	sub := decimal.Zero
	for _, item := range items {
		sub = sub.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	sub = billing.Round2(sub)
	taxable := sub.Sub(discount)
	tax := billing.Round2(taxable.Mul(taxPercent).Div(decimal.NewFromInt(100)))
	total := taxable.Add(tax)
	return PurchaseTotals{
		SubTotal: sub,
		Discount: discount,
		Tax:      tax,
		Total:    total,
		Paid:     paid,
		Due:      decimal.Max(decimal.Zero, total.Sub(paid)),
	}
}

// CreatePurchase creates a pending purchase. Stock is untouched until the
// purchase is received.
func (s *PurchaseService) CreatePurchase(ctx context.Context, input *CreatePurchaseInput) (*entity.Purchase, error) {
	if err := validatePurchaseInput(input); err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	if !supplier.Active {
		return nil, apperror.NewBadRequestError("Supplier is inactive")
	}

	// Batch fetch all medicines in one query (prevents N+1)
	ids := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		ids[i] = item.MedicineID
	}
	medicines, err := s.medicineRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	medicineMap := make(map[uuid.UUID]*entity.Medicine, len(medicines))
	for i := range medicines {
		medicineMap[medicines[i].ID] = &medicines[i]
	}

	details := make([]entity.PurchaseDetail, 0, len(input.Items))
	for _, item := range input.Items {
		medicine, ok := medicineMap[item.MedicineID]
		if !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Medicine %s", item.MedicineID))
		}
		details = append(details, entity.PurchaseDetail{
			MedicineID:   medicine.ID,
			MedicineName: medicine.Name,
			Quantity:     item.Quantity,
			UnitCost:     billing.ToCents(item.UnitCost),
			Total:        billing.ToCents(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))),
			BatchNo:      item.BatchNo,
			ExpiryDate:   item.ExpiryDate,
		})
	}

	totals := ComputePurchaseTotals(input.Items, input.DiscountAmount, input.TaxPercent, input.PaidAmount)
	if totals.Total.IsNegative() {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "discount_amount", Message: "exceeds the purchase sub total"})
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	purchase := &entity.Purchase{
		SupplierID:     supplier.ID,
		PurchaseNo:     utils.GenerateDocumentNo("PUR", date),
		Date:           date,
		Status:         enum.PurchaseStatusPending,
		SubTotal:       billing.ToCents(totals.SubTotal),
		DiscountAmount: billing.ToCents(totals.Discount),
		TaxPercent:     billing.Round2(input.TaxPercent).InexactFloat64(),
		TaxAmount:      billing.ToCents(totals.Tax),
		Total:          billing.ToCents(totals.Total),
		PaidAmount:     billing.ToCents(totals.Paid),
		DueAmount:      billing.ToCents(totals.Due),
		Notes:          input.Notes,
		Details:        details,
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Purchase number already exists")
		}
		return nil, err
	}

	s.invalidateReports(ctx)
	return s.purchaseRepo.GetByID(ctx, purchase.ID)
}

// GetPurchase retrieves a purchase with supplier and details
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// ListPurchases lists purchases with filtering
func (s *PurchaseService) ListPurchases(ctx context.Context, params *repository.PurchaseFilterParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	purchases, total, err := s.purchaseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(purchases, pag), nil
}

// ReceivePurchase books a pending purchase into stock. Each medicine takes
// the received quantity, the unit cost as its new TP (strip, box and margin
// re-derived) and the line's batch and expiry when given.
func (s *PurchaseService) ReceivePurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := purchase.Status.TransitionTo(enum.PurchaseStatusReceived); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	ids := make([]uuid.UUID, len(purchase.Details))
	for i, d := range purchase.Details {
		ids[i] = d.MedicineID
	}
	medicines, err := s.medicineRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	medicineMap := make(map[uuid.UUID]*entity.Medicine, len(medicines))
	for i := range medicines {
		medicineMap[medicines[i].ID] = &medicines[i]
	}

	// Lines for the same medicine collapse into one receipt; the last
	// line's cost and batch win.
	order := make([]uuid.UUID, 0, len(purchase.Details))
	receipts := make(map[uuid.UUID]*repository.StockReceipt, len(purchase.Details))
	for _, d := range purchase.Details {
		medicine, ok := medicineMap[d.MedicineID]
		if !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Medicine %s", d.MedicineID))
		}
		rc, seen := receipts[d.MedicineID]
		if !seen {
			rc = &repository.StockReceipt{Medicine: medicine}
			receipts[d.MedicineID] = rc
			order = append(order, d.MedicineID)
		}
		rc.Quantity += d.Quantity

		medicine.ApplyPricing(billing.FromCents(d.UnitCost), medicine.MRPUnitPrice())
		if d.BatchNo != "" {
			medicine.BatchNo = d.BatchNo
		}
		if d.ExpiryDate != nil {
			medicine.ExpiryDate = d.ExpiryDate
		}
		supplierID := purchase.SupplierID
		medicine.SupplierID = &supplierID
	}

	list := make([]repository.StockReceipt, 0, len(order))
	for _, mid := range order {
		list = append(list, *receipts[mid])
	}

	now := time.Now()
	purchase.Status = enum.PurchaseStatusReceived
	purchase.ReceivedAt = &now
	purchase.Supplier = nil

	if err := s.purchaseRepo.Receive(ctx, purchase, list); err != nil {
		return nil, fmt.Errorf("receive purchase %s: %w", purchase.PurchaseNo, err)
	}

	s.log.Info("purchase received",
		zap.String("purchase_no", purchase.PurchaseNo),
		zap.Int("medicines", len(list)),
	)
	s.invalidateReports(ctx)
	return s.purchaseRepo.GetByID(ctx, purchase.ID)
}

// CancelPurchase cancels a pending purchase
func (s *PurchaseService) CancelPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := purchase.Status.TransitionTo(enum.PurchaseStatusCancelled); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	purchase.Status = enum.PurchaseStatusCancelled
	purchase.Supplier = nil
	if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
		return nil, err
	}

	s.log.Info("purchase cancelled", zap.String("purchase_no", purchase.PurchaseNo))
	s.invalidateReports(ctx)
	return s.purchaseRepo.GetByID(ctx, purchase.ID)
}

// DeletePurchase deletes a pending purchase
func (s *PurchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.GetPurchase(ctx, id)
	if err != nil {
		return err
	}
	if !purchase.Status.Open() {
		return apperror.NewBadRequestError("Only pending purchases can be deleted")
	}
	if err := s.purchaseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *PurchaseService) invalidateReports(ctx context.Context) {
	dropCachedReports(ctx, s.reports, s.log)
}

func validatePurchaseInput(input *CreatePurchaseInput) error {
	var fields []apperror.FieldError
	if len(input.Items) == 0 {
		fields = append(fields, apperror.FieldError{Field: "items", Message: "at least one item is required"})
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			fields = append(fields, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be positive"})
		}
		if item.UnitCost.IsNegative() {
			fields = append(fields, apperror.FieldError{Field: fmt.Sprintf("items[%d].unit_cost", i), Message: "must not be negative"})
		}
	}
	if input.DiscountAmount.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "discount_amount", Message: "must not be negative"})
	}
	if input.TaxPercent.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "tax_percent", Message: "must not be negative"})
	}
	if input.PaidAmount.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "paid_amount", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields...)
	}
	return nil
}
