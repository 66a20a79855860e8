package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/google/uuid"
)

type categoryRepository struct {
	s *Store
}

func (r *categoryRepository) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.categorySlugTaken(category.Slug, category.ID) {
		return fmt.Errorf("category slug %q: %w", category.Slug, repository.ErrDuplicate)
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.s.categories[category.ID] = *category
	return nil
}

func (r *categoryRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	c.MedicineCount = r.s.countMedicines(func(m *entity.Medicine) bool { return ptrEqual(&id, m.CategoryID) })
	return &c, nil
}

func (r *categoryRepository) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *categoryRepository) Update(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.categories[category.ID]
	if !ok {
		return fmt.Errorf("category %s does not exist", category.ID)
	}
	if r.s.categorySlugTaken(category.Slug, category.ID) {
		return fmt.Errorf("category slug %q: %w", category.Slug, repository.ErrDuplicate)
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	r.s.categories[category.ID] = *category
	return nil
}

func (r *categoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.categories, id)
	return nil
}

func (r *categoryRepository) List(_ context.Context, search string) ([]entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[uuid.UUID]int64)
	for _, m := range r.s.medicines {
		if m.CategoryID != nil {
			counts[*m.CategoryID]++
		}
	}

	out := make([]entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		if !matchesAny(search, c.Name, c.Description) {
			continue
		}
		c.MedicineCount = counts[c.ID]
		out = append(out, c)
	}
	sortItems(out, func(a, b entity.Category) int { return compareFold(a.Name, b.Name) }, false)
	return out, nil
}

func (s *Store) categorySlugTaken(slug string, self uuid.UUID) bool {
	for id, c := range s.categories {
		if c.Slug == slug && id != self {
			return true
		}
	}
	return false
}

func (s *Store) countMedicines(match func(m *entity.Medicine) bool) int64 {
	var n int64
	for _, m := range s.medicines {
		if match(&m) {
			n++
		}
	}
	return n
}
