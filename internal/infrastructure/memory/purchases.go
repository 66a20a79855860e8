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

type purchaseRepository struct {
	s *Store
}

func (r *purchaseRepository) Create(_ context.Context, purchase *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.purchases {
		if p.PurchaseNo == purchase.PurchaseNo {
			return fmt.Errorf("purchase no %q: %w", purchase.PurchaseNo, repository.ErrDuplicate)
		}
	}
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	now := time.Now()
	purchase.CreatedAt = now
	purchase.UpdatedAt = now
	stampPurchaseDetails(purchase, now)
	r.s.purchases[purchase.ID] = barePurchase(*purchase)
	return nil
}

func (r *purchaseRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	out := r.s.hydratePurchase(p)
	return &out, nil
}

func (r *purchaseRepository) GetByPurchaseNo(_ context.Context, purchaseNo string) (*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.purchases {
		if p.PurchaseNo == purchaseNo {
			out := r.s.hydratePurchase(p)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *purchaseRepository) Update(_ context.Context, purchase *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.purchases[purchase.ID]
	if !ok {
		return fmt.Errorf("purchase %s does not exist", purchase.ID)
	}
	now := time.Now()
	purchase.CreatedAt = existing.CreatedAt
	purchase.UpdatedAt = now
	if purchase.Details == nil {
		purchase.Details = existing.Details
	}
	stampPurchaseDetails(purchase, now)
	r.s.purchases[purchase.ID] = barePurchase(*purchase)
	return nil
}

func (r *purchaseRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.purchases, id)
	return nil
}

func (r *purchaseRepository) List(_ context.Context, params *repository.PurchaseFilterParams) ([]entity.Purchase, int64, error) {
	if params == nil {
		params = &repository.PurchaseFilterParams{}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]entity.Purchase, 0, len(r.s.purchases))
	for _, p := range r.s.purchases {
		supplierName := ""
		if sp, ok := r.s.suppliers[p.SupplierID]; ok {
			supplierName = sp.Name
		}
		if !matchesAny(params.Search, p.PurchaseNo, supplierName) {
			continue
		}
		if params.Status != nil && p.Status != *params.Status {
			continue
		}
		if params.SupplierID != nil && p.SupplierID != *params.SupplierID {
			continue
		}
		if !inRange(p.Date, params.StartDate, params.EndDate) {
			continue
		}
		items = append(items, p)
	}

	sort := repository.ResolveSort(params.SortBy, params.SortOrder, repository.PurchaseSortFields)
	sortItems(items, purchaseComparator(sort.Field), sort.Desc)

	total := int64(len(items))
	page := pagination.Slice(items, params.Pagination)
	out := make([]entity.Purchase, len(page))
	for i, p := range page {
		out[i] = r.s.hydratePurchase(p)
	}
	return out, total, nil
}

func (r *purchaseRepository) Count(_ context.Context, status *enum.PurchaseStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, p := range r.s.purchases {
		if status == nil || p.Status == *status {
			n++
		}
	}
	return n, nil
}

func (r *purchaseRepository) Receive(_ context.Context, purchase *entity.Purchase, receipts []repository.StockReceipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.purchases[purchase.ID]
	if !ok {
		return fmt.Errorf("purchase %s does not exist", purchase.ID)
	}
	if !existing.Status.Open() {
		return fmt.Errorf("purchase %s is %s", purchase.ID, existing.Status)
	}
	for _, rc := range receipts {
		if _, ok := r.s.medicines[rc.Medicine.ID]; !ok {
			return fmt.Errorf("medicine %s does not exist", rc.Medicine.ID)
		}
	}

	now := time.Now()
	for _, rc := range receipts {
		m := r.s.medicines[rc.Medicine.ID]
		m.TPUnit, m.TPStrip, m.TPBox = rc.Medicine.TPUnit, rc.Medicine.TPStrip, rc.Medicine.TPBox
		m.ProfitMargin = rc.Medicine.ProfitMargin
		m.BatchNo = rc.Medicine.BatchNo
		m.ExpiryDate = rc.Medicine.ExpiryDate
		m.SupplierID = rc.Medicine.SupplierID
		m.Quantity += rc.Quantity
		m.UpdatedAt = now
		r.s.medicines[m.ID] = m
	}

	purchase.CreatedAt = existing.CreatedAt
	purchase.UpdatedAt = now
	purchase.Details = existing.Details
	r.s.purchases[purchase.ID] = barePurchase(*purchase)
	return nil
}

func stampPurchaseDetails(p *entity.Purchase, now time.Time) {
	for i := range p.Details {
		d := &p.Details[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
			d.CreatedAt = now
		}
		d.PurchaseID = p.ID
		d.UpdatedAt = now
	}
}

func (s *Store) hydratePurchase(p entity.Purchase) entity.Purchase {
	if sp, ok := s.suppliers[p.SupplierID]; ok {
		p.Supplier = &sp
	}
	p.Details = slices.Clone(p.Details)
	return p
}

func barePurchase(p entity.Purchase) entity.Purchase {
	p.Supplier = nil
	p.Details = slices.Clone(p.Details)
	return p
}

func purchaseComparator(field string) func(a, b entity.Purchase) int {
	switch field {
	case "date":
		return func(a, b entity.Purchase) int { return a.Date.Compare(b.Date) }
	case "total":
		return func(a, b entity.Purchase) int { return compareInt(a.Total, b.Total) }
	default:
		return func(a, b entity.Purchase) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
