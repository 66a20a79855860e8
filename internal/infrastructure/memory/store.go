// Package memory is the in-process storage driver. It keeps every record in
// maps behind one lock, which also makes multi-record writes such as a sale
// checkout atomic.
package memory

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/google/uuid"
)

type Store struct {
	mu         sync.RWMutex
	medicines  map[uuid.UUID]entity.Medicine
	categories map[uuid.UUID]entity.Category
	racks      map[uuid.UUID]entity.Rack
	suppliers  map[uuid.UUID]entity.Supplier
	purchases  map[uuid.UUID]entity.Purchase
	sales      map[uuid.UUID]entity.Sale
	replays    map[replayKey]entity.ReplayRecord
}

func New() *Store {
	return &Store{
		medicines:  make(map[uuid.UUID]entity.Medicine),
		categories: make(map[uuid.UUID]entity.Category),
		racks:      make(map[uuid.UUID]entity.Rack),
		suppliers:  make(map[uuid.UUID]entity.Supplier),
		purchases:  make(map[uuid.UUID]entity.Purchase),
		sales:      make(map[uuid.UUID]entity.Sale),
		replays:    make(map[replayKey]entity.ReplayRecord),
	}
}

// Repositories exposes the store through the domain interfaces.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Medicines:  &medicineRepository{s: s},
		Categories: &categoryRepository{s: s},
		Racks:      &rackRepository{s: s},
		Suppliers:  &supplierRepository{s: s},
		Purchases:  &purchaseRepository{s: s},
		Sales:      &saleRepository{s: s},
		Replays:    &replayRepository{s: s},
		Reports:    &reportRepository{s: s},
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesAny(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if containsFold(f, needle) {
			return true
		}
	}
	return false
}

func sortItems[T any](items []T, compare func(a, b T) int, desc bool) {
	slices.SortStableFunc(items, func(a, b T) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareDates orders missing dates after every real one.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && !t.Before(*end) {
		return false
	}
	return true
}

func ptrEqual[T comparable](filter, value *T) bool {
	if filter == nil {
		return true
	}
	return value != nil && *value == *filter
}

func compareInt[T cmp.Ordered](a, b T) int {
	return cmp.Compare(a, b)
}
