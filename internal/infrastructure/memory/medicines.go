package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
)

type medicineRepository struct {
	s *Store
}

func (r *medicineRepository) Create(_ context.Context, medicine *entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.medicineCodeTaken(medicine.Code, medicine.ID) {
		return fmt.Errorf("medicine code %q: %w", medicine.Code, repository.ErrDuplicate)
	}
	r.s.insertMedicine(medicine, time.Now())
	return nil
}

func (r *medicineRepository) CreateBatch(_ context.Context, medicines []entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[string]bool, len(medicines))
	for _, m := range medicines {
		if seen[m.Code] || r.s.medicineCodeTaken(m.Code, m.ID) {
			return fmt.Errorf("medicine code %q: %w", m.Code, repository.ErrDuplicate)
		}
		seen[m.Code] = true
	}
	now := time.Now()
	for i := range medicines {
		r.s.insertMedicine(&medicines[i], now)
	}
	return nil
}

func (r *medicineRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.medicines[id]
	if !ok {
		return nil, nil
	}
	out := r.s.hydrateMedicine(m)
	return &out, nil
}

func (r *medicineRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.Medicine, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.s.medicines[id]; ok {
			out = append(out, r.s.hydrateMedicine(m))
		}
	}
	return out, nil
}

func (r *medicineRepository) GetByCode(_ context.Context, code string) (*entity.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.medicines {
		if m.Code == code {
			out := r.s.hydrateMedicine(m)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *medicineRepository) Update(_ context.Context, medicine *entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.medicines[medicine.ID]
	if !ok {
		return fmt.Errorf("medicine %s does not exist", medicine.ID)
	}
	if r.s.medicineCodeTaken(medicine.Code, medicine.ID) {
		return fmt.Errorf("medicine code %q: %w", medicine.Code, repository.ErrDuplicate)
	}
	medicine.CreatedAt = existing.CreatedAt
	medicine.UpdatedAt = time.Now()
	r.s.medicines[medicine.ID] = bareMedicine(*medicine)
	return nil
}

func (r *medicineRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.medicines, id)
	return nil
}

func (r *medicineRepository) List(_ context.Context, params *repository.MedicineFilterParams) ([]entity.Medicine, int64, error) {
	if params == nil {
		params = &repository.MedicineFilterParams{}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := r.s.filterMedicines(params)
	sort := repository.ResolveSort(params.SortBy, params.SortOrder, repository.MedicineSortFields)
	sortItems(items, medicineComparator(sort.Field), sort.Desc)

	total := int64(len(items))
	page := pagination.Slice(items, params.Pagination)
	out := make([]entity.Medicine, len(page))
	for i, m := range page {
		out[i] = r.s.hydrateMedicine(m)
	}
	return out, total, nil
}

func (r *medicineRepository) Count(_ context.Context, params *repository.MedicineFilterParams) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.s.filterMedicines(params))), nil
}

func (r *medicineRepository) AssignRack(_ context.Context, medicineID uuid.UUID, rackID *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.medicines[medicineID]
	if !ok {
		return fmt.Errorf("medicine %s does not exist", medicineID)
	}
	m.RackID = rackID
	m.UpdatedAt = time.Now()
	r.s.medicines[medicineID] = m
	return nil
}

func (r *medicineRepository) AtomicDecrementBatch(_ context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if failed := r.s.shortStock(decrements); len(failed) > 0 {
		return failed, nil
	}
	r.s.adjustStock(decrements, -1)
	return nil, nil
}

func (r *medicineRepository) AtomicIncrementBatch(_ context.Context, increments map[uuid.UUID]int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.adjustStock(increments, 1)
	return nil
}

// The helpers below expect the caller to hold s.mu.

func (s *Store) insertMedicine(m *entity.Medicine, now time.Time) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	s.medicines[m.ID] = bareMedicine(*m)
}

func (s *Store) medicineCodeTaken(code string, self uuid.UUID) bool {
	for id, m := range s.medicines {
		if m.Code == code && id != self {
			return true
		}
	}
	return false
}

// shortStock returns the medicines that cannot cover their amount, sorted
// for stable error messages.
func (s *Store) shortStock(amounts map[uuid.UUID]int) []uuid.UUID {
	var failed []uuid.UUID
	for id, amount := range amounts {
		m, ok := s.medicines[id]
		if !ok || m.Quantity < amount {
			failed = append(failed, id)
		}
	}
	slices.SortFunc(failed, func(a, b uuid.UUID) int { return compareFold(a.String(), b.String()) })
	return failed
}

func (s *Store) adjustStock(amounts map[uuid.UUID]int, sign int) {
	now := time.Now()
	for id, amount := range amounts {
		m, ok := s.medicines[id]
		if !ok {
			continue
		}
		m.Quantity += sign * amount
		m.UpdatedAt = now
		s.medicines[id] = m
	}
}

func (s *Store) filterMedicines(params *repository.MedicineFilterParams) []entity.Medicine {
	out := make([]entity.Medicine, 0, len(s.medicines))
	for _, m := range s.medicines {
		if medicineMatches(&m, params) {
			out = append(out, m)
		}
	}
	return out
}

func medicineMatches(m *entity.Medicine, params *repository.MedicineFilterParams) bool {
	if params == nil {
		return true
	}
	if !matchesAny(params.Search, m.Name, m.GenericName, m.Code, m.Manufacturer) {
		return false
	}
	if !ptrEqual(params.CategoryID, m.CategoryID) ||
		!ptrEqual(params.RackID, m.RackID) ||
		!ptrEqual(params.SupplierID, m.SupplierID) {
		return false
	}
	if params.Type != nil && m.Type != *params.Type {
		return false
	}
	if params.LowStock && !m.IsLowStock() {
		return false
	}
	if params.ExpiringBefore != nil && !m.ExpiresBefore(*params.ExpiringBefore) {
		return false
	}
	return true
}

func medicineComparator(field string) func(a, b entity.Medicine) int {
	switch field {
	case "name":
		return func(a, b entity.Medicine) int { return compareFold(a.Name, b.Name) }
	case "quantity":
		return func(a, b entity.Medicine) int { return compareInt(a.Quantity, b.Quantity) }
	case "expiry_date":
		return func(a, b entity.Medicine) int { return compareDates(a.ExpiryDate, b.ExpiryDate) }
	case "mrp_unit":
		return func(a, b entity.Medicine) int { return compareInt(a.MRPUnit, b.MRPUnit) }
	default:
		return func(a, b entity.Medicine) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// hydrateMedicine attaches copies of the related records.
func (s *Store) hydrateMedicine(m entity.Medicine) entity.Medicine {
	if m.CategoryID != nil {
		if c, ok := s.categories[*m.CategoryID]; ok {
			m.Category = &c
		}
	}
	if m.RackID != nil {
		if rk, ok := s.racks[*m.RackID]; ok {
			m.Rack = &rk
		}
	}
	if m.SupplierID != nil {
		if sp, ok := s.suppliers[*m.SupplierID]; ok {
			m.Supplier = &sp
		}
	}
	return m
}

func bareMedicine(m entity.Medicine) entity.Medicine {
	m.Category = nil
	m.Rack = nil
	m.Supplier = nil
	return m
}
