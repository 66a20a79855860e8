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

type rackRepository struct {
	s *Store
}

func (r *rackRepository) Create(_ context.Context, rack *entity.Rack) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.rackCodeTaken(rack.Code, rack.ID) {
		return fmt.Errorf("rack code %q: %w", rack.Code, repository.ErrDuplicate)
	}
	if rack.ID == uuid.Nil {
		rack.ID = uuid.New()
	}
	now := time.Now()
	rack.CreatedAt = now
	rack.UpdatedAt = now
	rack.MedicineCount = 0
	r.s.racks[rack.ID] = *rack
	return nil
}

func (r *rackRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Rack, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rack, ok := r.s.racks[id]
	if !ok {
		return nil, nil
	}
	rack.MedicineCount = r.s.rackCounts()[id]
	return &rack, nil
}

func (r *rackRepository) GetByCode(_ context.Context, code string) (*entity.Rack, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rack := range r.s.racks {
		if rack.Code == code {
			rack.MedicineCount = r.s.rackCounts()[rack.ID]
			return &rack, nil
		}
	}
	return nil, nil
}

func (r *rackRepository) Update(_ context.Context, rack *entity.Rack) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.racks[rack.ID]
	if !ok {
		return fmt.Errorf("rack %s does not exist", rack.ID)
	}
	if r.s.rackCodeTaken(rack.Code, rack.ID) {
		return fmt.Errorf("rack code %q: %w", rack.Code, repository.ErrDuplicate)
	}
	rack.CreatedAt = existing.CreatedAt
	rack.UpdatedAt = time.Now()
	r.s.racks[rack.ID] = *rack
	return nil
}

func (r *rackRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.racks, id)
	return nil
}

func (r *rackRepository) List(_ context.Context, params *repository.RackFilterParams) ([]entity.Rack, int64, error) {
	if params == nil {
		params = &repository.RackFilterParams{}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := r.s.rackCounts()
	items := make([]entity.Rack, 0, len(r.s.racks))
	for _, rack := range r.s.racks {
		if !matchesAny(params.Search, rack.Name, rack.Code, rack.Location) {
			continue
		}
		rack.MedicineCount = counts[rack.ID]
		items = append(items, rack)
	}

	sort := repository.ResolveSort(params.SortBy, params.SortOrder, repository.RackSortFields)
	sortItems(items, rackComparator(sort.Field), sort.Desc)

	return pagination.Slice(items, params.Pagination), int64(len(items)), nil
}

func (r *rackRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.s.racks)), nil
}

func (s *Store) rackCodeTaken(code string, self uuid.UUID) bool {
	for id, rack := range s.racks {
		if rack.Code == code && id != self {
			return true
		}
	}
	return false
}

func (s *Store) rackCounts() map[uuid.UUID]int64 {
	counts := make(map[uuid.UUID]int64)
	for _, m := range s.medicines {
		if m.RackID != nil {
			counts[*m.RackID]++
		}
	}
	return counts
}

func rackComparator(field string) func(a, b entity.Rack) int {
	switch field {
	case "name":
		return func(a, b entity.Rack) int { return compareFold(a.Name, b.Name) }
	case "code":
		return func(a, b entity.Rack) int { return compareFold(a.Code, b.Code) }
	default:
		return func(a, b entity.Rack) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
