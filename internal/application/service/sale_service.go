package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/billing"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/cache"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/events"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService runs the point of sale: open sessions, reconciliation,
// checkout and the sale ledger afterwards.
type SaleService struct {
	saleRepo     repository.SaleRepository
	medicineRepo repository.MedicineRepository
	drafts       *SaleDraftStore
	publisher    events.Publisher
	reports      cache.ReportCache
	defaultVAT   decimal.Decimal
	log          *zap.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(
	repos *repository.Repositories,
	drafts *SaleDraftStore,
	publisher events.Publisher,
	reports cache.ReportCache,
	defaultVATPercent float64,
	log *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:     repos.Sales,
		medicineRepo: repos.Medicines,
		drafts:       drafts,
		publisher:    publisher,
		reports:      reports,
		defaultVAT:   decimal.NewFromFloat(defaultVATPercent),
		log:          log,
	}
}

// SaleDetailsInput carries the customer side of a session.
type SaleDetailsInput struct {
	CustomerName  string
	CustomerPhone string
	PaymentType   string
	Notes         *string
}

// AddLineInput adds a medicine to the cart. UnitPrice overrides the MRP.
type AddLineInput struct {
	MedicineID uuid.UUID
	Quantity   int
	UnitPrice  *decimal.Decimal
}

// UpdateLineInput changes an existing line. Nil fields are left alone.
type UpdateLineInput struct {
	Quantity  *int
	UnitPrice *decimal.Decimal
}

// QuoteLine is a cart line supplied by the client for a stateless quote.
type QuoteLine struct {
	ItemID    uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// QuoteInput asks for a reconciliation without any session.
type QuoteInput struct {
	Lines   []QuoteLine
	State   billing.PaymentState
	Changed string
	// Value, when set, is written to the changed field first.
	Value *decimal.Decimal
}

// Quote is the result of a stateless reconciliation.
type Quote struct {
	Lines []billing.CartLine   `json:"lines"`
	State billing.PaymentState `json:"state"`
}

// StartSale opens a new POS session with an empty cart. The configured
// VAT rate is pre-filled.
func (s *SaleService) StartSale(input *SaleDetailsInput) (SaleDraft, error) {
	draft := &SaleDraft{
		State:       billing.NewPaymentState(),
		PaymentType: enum.PaymentTypeCash,
	}
	if input != nil {
		if err := applySaleDetails(draft, input); err != nil {
			return SaleDraft{}, err
		}
	}
	draft.Apply(billing.FieldVATPercent, s.defaultVAT)
	return s.drafts.Create(draft), nil
}

// GetDraft returns an open session.
func (s *SaleService) GetDraft(id uuid.UUID) (SaleDraft, error) {
	return s.drafts.Get(id)
}

// UpdateDetails changes the customer and payment type of a session.
func (s *SaleService) UpdateDetails(id uuid.UUID, input *SaleDetailsInput) (SaleDraft, error) {
	return s.drafts.Update(id, func(d *SaleDraft) error {
		return applySaleDetails(d, input)
	})
}

// AddLine puts a medicine in the cart, merging with an existing line for
// the same medicine. The quantity is bounded by the stock seen the first
// time the medicine was added.
func (s *SaleService) AddLine(ctx context.Context, id uuid.UUID, input *AddLineInput) (SaleDraft, error) {
	if input.Quantity <= 0 {
		return SaleDraft{}, apperror.NewValidationError(apperror.FieldError{Field: "quantity", Message: "must be positive"})
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return SaleDraft{}, apperror.NewValidationError(apperror.FieldError{Field: "unit_price", Message: "must not be negative"})
	}

	medicine, err := s.medicineRepo.GetByID(ctx, input.MedicineID)
	if err != nil {
		return SaleDraft{}, err
	}
	if medicine == nil {
		return SaleDraft{}, apperror.NewNotFoundError("Medicine")
	}

	return s.drafts.Update(id, func(d *SaleDraft) error {
		available, seen := d.Stock[medicine.ID]
		if !seen {
			available = medicine.Quantity
		}

		idx := d.LineIndex(medicine.ID)
		requested := input.Quantity
		if idx >= 0 {
			requested += d.Lines[idx].Quantity
		}
		if requested > available {
			return apperror.NewStockError(medicine.Name, available, requested)
		}

		if idx >= 0 {
			d.Lines[idx].SetQuantity(requested)
			if input.UnitPrice != nil {
				d.Lines[idx].SetUnitPrice(*input.UnitPrice)
			}
		} else {
			price := medicine.MRPUnitPrice()
			if input.UnitPrice != nil {
				price = *input.UnitPrice
			}
			d.Lines = append(d.Lines, billing.NewCartLine(medicine.ID, medicine.Name, price, requested))
			d.Stock[medicine.ID] = available
			d.Costs[medicine.ID] = medicine.TPUnit
		}
		d.Recompute(billing.FieldCart)
		return nil
	})
}

// UpdateLine changes the quantity or unit price of a cart line.
func (s *SaleService) UpdateLine(id, itemID uuid.UUID, input *UpdateLineInput) (SaleDraft, error) {
	return s.drafts.Update(id, func(d *SaleDraft) error {
		idx := d.LineIndex(itemID)
		if idx < 0 {
			return apperror.NewNotFoundError("Cart line")
		}
		line := &d.Lines[idx]

		if input.Quantity != nil {
			qty := *input.Quantity
			if qty <= 0 {
				return apperror.NewValidationError(apperror.FieldError{Field: "quantity", Message: "must be positive"})
			}
			if available := d.Stock[itemID]; qty > available {
				return apperror.NewStockError(line.Name, available, qty)
			}
			line.SetQuantity(qty)
		}
		if input.UnitPrice != nil {
			if input.UnitPrice.IsNegative() {
				return apperror.NewValidationError(apperror.FieldError{Field: "unit_price", Message: "must not be negative"})
			}
			line.SetUnitPrice(*input.UnitPrice)
		}
		d.Recompute(billing.FieldCart)
		return nil
	})
}

// RemoveLine takes a medicine out of the cart.
func (s *SaleService) RemoveLine(id, itemID uuid.UUID) (SaleDraft, error) {
	return s.drafts.Update(id, func(d *SaleDraft) error {
		idx := d.LineIndex(itemID)
		if idx < 0 {
			return apperror.NewNotFoundError("Cart line")
		}
		d.Lines = append(d.Lines[:idx], d.Lines[idx+1:]...)
		delete(d.Stock, itemID)
		delete(d.Costs, itemID)
		d.Recompute(billing.FieldCart)
		return nil
	})
}

// SetPaymentField records an operator edit to one of the payment inputs.
func (s *SaleService) SetPaymentField(id uuid.UUID, field string, value decimal.Decimal) (SaleDraft, error) {
	changed, err := billing.ParseFieldChange(field)
	if err != nil {
		return SaleDraft{}, apperror.NewBadRequestError(err.Error())
	}
	if value.IsNegative() {
		return SaleDraft{}, apperror.NewValidationError(apperror.FieldError{Field: field, Message: "must not be negative"})
	}
	return s.drafts.Update(id, func(d *SaleDraft) error {
		if changed == billing.FieldCart {
			d.Recompute(changed)
			return nil
		}
		d.Apply(changed, value)
		return nil
	})
}

// AbandonSale discards a session without touching stock.
func (s *SaleService) AbandonSale(id uuid.UUID) error {
	return s.drafts.Delete(id)
}

// Quote reconciles a client-held cart and state.
func (s *SaleService) Quote(input *QuoteInput) (*Quote, error) {
	changed, err := billing.ParseFieldChange(input.Changed)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	var fields []apperror.FieldError
	lines := make([]billing.CartLine, 0, len(input.Lines))
	for i, l := range input.Lines {
		if l.Quantity <= 0 {
			fields = append(fields, apperror.FieldError{Field: fmt.Sprintf("lines[%d].quantity", i), Message: "must be positive"})
		}
		if l.UnitPrice.IsNegative() {
			fields = append(fields, apperror.FieldError{Field: fmt.Sprintf("lines[%d].unit_price", i), Message: "must not be negative"})
		}
		lines = append(lines, billing.NewCartLine(l.ItemID, l.Name, l.UnitPrice, l.Quantity))
	}
	if input.Value != nil && input.Value.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "value", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields...)
	}

	state := input.State
	if input.Value != nil {
		state = billing.Apply(lines, state, changed, *input.Value)
	} else {
		state = billing.Recompute(lines, state, changed)
	}
	return &Quote{Lines: lines, State: state}, nil
}

// SubmitSale checks out a session: stock for every line is taken in one
// transaction, the sale is stored with the reconciled totals and the
// session is closed. When any medicine is short nothing is written and the
// session stays open.
func (s *SaleService) SubmitSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale *entity.Sale
	var sold map[uuid.UUID]int

	err := s.drafts.Consume(id, func(d SaleDraft) error {
		if len(d.Lines) == 0 {
			return apperror.ErrEmptyCart
		}

		now := time.Now()
		sale = &entity.Sale{
			InvoiceNo:     utils.GenerateDocumentNo("INV", now),
			Date:          now,
			CustomerName:  d.CustomerName,
			CustomerPhone: d.CustomerPhone,
			PaymentType:   d.PaymentType,
			Notes:         d.Notes,
			Details:       make([]entity.SaleDetail, 0, len(d.Lines)),
		}
		// Totals are reconciled once more so the stored sale can never
		// disagree with its lines.
		sale.ApplyPaymentState(billing.Recompute(d.Lines, d.State, billing.FieldCart))

		sold = make(map[uuid.UUID]int, len(d.Lines))
		for _, line := range d.Lines {
			sale.Details = append(sale.Details, entity.SaleDetail{
				MedicineID:   line.ItemID,
				MedicineName: line.Name,
				Quantity:     line.Quantity,
				UnitPrice:    billing.ToCents(line.UnitPrice),
				UnitCost:     d.Costs[line.ItemID],
				Total:        billing.ToCents(line.LineTotal),
			})
			sold[line.ItemID] += line.Quantity
		}

		failedIDs, err := s.saleRepo.Checkout(ctx, sale)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.NewConflictError("Invoice number already exists")
			}
			return fmt.Errorf("checkout %s: %w", sale.InvoiceNo, err)
		}
		if len(failedIDs) > 0 {
			return stockShortage(d, failedIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale submitted",
		zap.String("invoice_no", sale.InvoiceNo),
		zap.Int64("grand_total_cents", sale.GrandTotal),
		zap.String("status", sale.Status.String()),
	)

	s.publish(ctx, events.TypeSaleSubmitted, events.SaleSubmitted{
		SaleID:     sale.ID,
		InvoiceNo:  sale.InvoiceNo,
		GrandTotal: float64(sale.GrandTotal) / 100,
		DueAmount:  float64(sale.DueAmount) / 100,
		Items:      sale.TotalItems(),
	})
	s.publishLowStock(ctx, sold)
	s.invalidateReports(ctx)

	return s.saleRepo.GetByID(ctx, sale.ID)
}

func stockShortage(d SaleDraft, failedIDs []uuid.UUID) error {
	names := make([]string, 0, len(failedIDs))
	fields := make([]apperror.FieldError, 0, len(failedIDs))
	for _, fid := range failedIDs {
		name := fid.String()
		if idx := d.LineIndex(fid); idx >= 0 {
			name = d.Lines[idx].Name
		}
		names = append(names, name)
		fields = append(fields, apperror.FieldError{Field: fid.String(), Message: "insufficient stock for " + name})
	}
	return &apperror.AppError{
		Code:    apperror.ErrInsufficientStock.Code,
		Message: "Insufficient stock for: " + strings.Join(names, ", "),
		Errors:  fields,
	}
}

// publishLowStock announces medicines the sale pushed down to their alert
// level. Medicines already at or below it before the sale stay quiet.
func (s *SaleService) publishLowStock(ctx context.Context, sold map[uuid.UUID]int) {
	ids := make([]uuid.UUID, 0, len(sold))
	for mid := range sold {
		ids = append(ids, mid)
	}
	medicines, err := s.medicineRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("low stock check failed", zap.Error(err))
		return
	}
	for _, m := range medicines {
		before := m.Quantity + sold[m.ID]
		if m.IsLowStock() && before > m.QuantityAlert {
			s.publish(ctx, events.TypeStockLow, events.StockLow{
				MedicineID:    m.ID,
				Name:          m.Name,
				Quantity:      m.Quantity,
				QuantityAlert: m.QuantityAlert,
			})
		}
	}
}

// GetSale retrieves a sale with its details
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListDueSales returns sales with outstanding dues
func (s *SaleService) ListDueSales(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	status := enum.SaleStatusDue
	return s.ListSales(ctx, &repository.SaleFilterParams{
		Pagination: params,
		Status:     &status,
	})
}

// PayDue records a payment towards a sale's due amount. Paying more than
// is due turns the excess into change.
func (s *SaleService) PayDue(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entity.Sale, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "amount", Message: "must be positive"})
	}
	amountCents := billing.ToCents(amount)
	sale, err := s.saleRepo.PayDue(ctx, id, amountCents)
	if errors.Is(err, repository.ErrStatusChanged) {
		return nil, apperror.NewBadRequestError("Sale has no outstanding due")
	}
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	s.log.Info("sale due paid",
		zap.String("invoice_no", sale.InvoiceNo),
		zap.Int64("amount_cents", amountCents),
		zap.Int64("due_cents", sale.DueAmount),
	)
	s.invalidateReports(ctx)
	return sale, nil
}

// CancelSale cancels a sale and restores stock
func (s *SaleService) CancelSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Status == enum.SaleStatusCancelled {
		return nil, apperror.NewBadRequestError("Sale is already cancelled")
	}

	now := time.Now()
	sale.Status = enum.SaleStatusCancelled
	sale.CancelledAt = &now

	if err := s.saleRepo.Cancel(ctx, sale); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperror.NewBadRequestError("Sale is already cancelled")
		}
		return nil, fmt.Errorf("cancel sale %s: %w", sale.InvoiceNo, err)
	}

	s.log.Info("sale cancelled", zap.String("invoice_no", sale.InvoiceNo))
	s.publish(ctx, events.TypeSaleCancelled, events.SaleCancelled{
		SaleID:    sale.ID,
		InvoiceNo: sale.InvoiceNo,
		Items:     sale.TotalItems(),
	})
	s.invalidateReports(ctx)
	return s.saleRepo.GetByID(ctx, sale.ID)
}

func (s *SaleService) publish(ctx context.Context, eventType string, payload interface{}) {
	event, err := events.NewEvent(eventType, payload)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.log.Warn("event publish failed", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *SaleService) invalidateReports(ctx context.Context) {
	dropCachedReports(ctx, s.reports, s.log)
}

func applySaleDetails(d *SaleDraft, input *SaleDetailsInput) error {
	paymentType, err := enum.ParsePaymentType(input.PaymentType)
	if err != nil {
		return apperror.NewValidationError(apperror.FieldError{Field: "payment_type", Message: err.Error()})
	}
	d.CustomerName = strings.TrimSpace(input.CustomerName)
	d.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	d.PaymentType = paymentType
	d.Notes = input.Notes
	return nil
}
