package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
)

type supplierRepository struct {
	s *Store
}

func (r *supplierRepository) Create(_ context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	now := time.Now()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	r.s.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *supplierRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *supplierRepository) Update(_ context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.suppliers[supplier.ID]
	if !ok {
		return fmt.Errorf("supplier %s does not exist", supplier.ID)
	}
	supplier.CreatedAt = existing.CreatedAt
	supplier.UpdatedAt = time.Now()
	r.s.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *supplierRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.suppliers, id)
	return nil
}

func (r *supplierRepository) List(_ context.Context, params *repository.SupplierFilterParams) ([]entity.Supplier, int64, error) {
	if params == nil {
		params = &repository.SupplierFilterParams{}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]entity.Supplier, 0, len(r.s.suppliers))
	for _, sp := range r.s.suppliers {
		email := ""
		if sp.Email != nil {
			email = *sp.Email
		}
		if !matchesAny(params.Search, sp.Name, sp.ContactPerson, sp.Phone, email) {
			continue
		}
		if params.Type != nil && sp.Type != *params.Type {
			continue
		}
		if params.Active != nil && sp.Active != *params.Active {
			continue
		}
		items = append(items, sp)
	}

	sort := repository.ResolveSort(params.SortBy, params.SortOrder, repository.SupplierSortFields)
	compare := func(a, b entity.Supplier) int { return a.CreatedAt.Compare(b.CreatedAt) }
	if sort.Field == "name" {
		compare = func(a, b entity.Supplier) int { return compareFold(a.Name, b.Name) }
	}
	sortItems(items, compare, sort.Desc)

	return pagination.Slice(items, params.Pagination), int64(len(items)), nil
}

func (r *supplierRepository) Count(_ context.Context, activeOnly bool) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, sp := range r.s.suppliers {
		if !activeOnly || sp.Active {
			n++
		}
	}
	return n, nil
}
