package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
)

type saleRepository struct {
	s *Store
}

func (r *saleRepository) Checkout(_ context.Context, sale *entity.Sale) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.sales {
		if existing.InvoiceNo == sale.InvoiceNo {
			return nil, fmt.Errorf("invoice no %q: %w", sale.InvoiceNo, repository.ErrDuplicate)
		}
	}

	amounts := saleQuantities(sale)
	if failed := r.s.shortStock(amounts); len(failed) > 0 {
		return failed, nil
	}
	r.s.adjustStock(amounts, -1)

	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	now := time.Now()
	sale.CreatedAt = now
	sale.UpdatedAt = now
	for i := range sale.Details {
		d := &sale.Details[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.SaleID = sale.ID
		d.CreatedAt = now
		d.UpdatedAt = now
	}
	r.s.sales[sale.ID] = cloneSale(*sale)
	return nil, nil
}

func (r *saleRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	out := cloneSale(sale)
	return &out, nil
}

func (r *saleRepository) GetByInvoiceNo(_ context.Context, invoiceNo string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sale := range r.s.sales {
		if sale.InvoiceNo == invoiceNo {
			out := cloneSale(sale)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *saleRepository) Update(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.saveSaleHeader(sale)
}

func (r *saleRepository) Cancel(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.sales[sale.ID]
	if !ok {
		return fmt.Errorf("sale %s does not exist", sale.ID)
	}
	if existing.Status == enum.SaleStatusCancelled {
		return fmt.Errorf("sale %s: %w", sale.ID, repository.ErrStatusChanged)
	}
	if err := r.s.saveSaleHeader(sale); err != nil {
		return err
	}
	r.s.adjustStock(saleQuantities(&existing), 1)
	return nil
}

func (r *saleRepository) PayDue(_ context.Context, id uuid.UUID, amountCents int64) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	if sale.Status != enum.SaleStatusDue {
		return nil, fmt.Errorf("sale %s is %s: %w", id, sale.Status, repository.ErrStatusChanged)
	}
	sale.RecordPayment(amountCents)
	sale.UpdatedAt = time.Now()
	r.s.sales[id] = sale

	out := cloneSale(sale)
	return &out, nil
}

func (r *saleRepository) List(_ context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	if params == nil {
		params = &repository.SaleFilterParams{}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]entity.Sale, 0, len(r.s.sales))
	for _, sale := range r.s.sales {
		if !matchesAny(params.Search, sale.InvoiceNo, sale.CustomerName, sale.CustomerPhone) {
			continue
		}
		if params.Status != nil && sale.Status != *params.Status {
			continue
		}
		if !inRange(sale.Date, params.StartDate, params.EndDate) {
			continue
		}
		items = append(items, sale)
	}

	sort := repository.ResolveSort(params.SortBy, params.SortOrder, repository.SaleSortFields)
	sortItems(items, saleComparator(sort.Field), sort.Desc)

	total := int64(len(items))
	page := pagination.Slice(items, params.Pagination)
	out := make([]entity.Sale, len(page))
	for i, sale := range page {
		out[i] = cloneSale(sale)
	}
	return out, total, nil
}

func (s *Store) saveSaleHeader(sale *entity.Sale) error {
	existing, ok := s.sales[sale.ID]
	if !ok {
		return fmt.Errorf("sale %s does not exist", sale.ID)
	}
	sale.CreatedAt = existing.CreatedAt
	sale.UpdatedAt = time.Now()
	sale.Details = existing.Details
	s.sales[sale.ID] = cloneSale(*sale)
	return nil
}

func saleQuantities(sale *entity.Sale) map[uuid.UUID]int {
	amounts := make(map[uuid.UUID]int, len(sale.Details))
	for _, d := range sale.Details {
		amounts[d.MedicineID] += d.Quantity
	}
	return amounts
}

func cloneSale(sale entity.Sale) entity.Sale {
	sale.Details = slices.Clone(sale.Details)
	return sale
}

func saleComparator(field string) func(a, b entity.Sale) int {
	switch field {
	case "date":
		return func(a, b entity.Sale) int { return a.Date.Compare(b.Date) }
	case "grand_total":
		return func(a, b entity.Sale) int { return compareInt(a.GrandTotal, b.GrandTotal) }
	default:
		return func(a, b entity.Sale) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
