package repository

import (
	"errors"
	"slices"
	"strings"
)

// ErrDuplicate is returned by stores when a unique field (code, slug,
// invoice number) is already taken.
var ErrDuplicate = errors.New("duplicate key")

// ErrStatusChanged is returned by a guarded write when the row is no longer
// in the status the caller read, usually because a concurrent request got
// there first.
var ErrStatusChanged = errors.New("status changed")

// Sortable columns per list.
var (
	MedicineSortFields = []string{"name", "quantity", "expiry_date", "mrp_unit", "created_at"}
	RackSortFields     = []string{"name", "code", "created_at"}
	SupplierSortFields = []string{"name", "created_at"}
	PurchaseSortFields = []string{"date", "total", "created_at"}
	SaleSortFields     = []string{"date", "grand_total", "created_at"}
)

// Sort is a resolved ordering.
type Sort struct {
	Field string
	Desc  bool
}

// SQL renders the ordering for an ORDER BY clause.
func (s Sort) SQL() string {
	if s.Desc {
		return s.Field + " DESC"
	}
	return s.Field + " ASC"
}

// ResolveSort whitelists sortBy against allowed. Unknown or empty fields
// sort by created_at; only an explicit "asc" sorts ascending.
func ResolveSort(sortBy, sortOrder string, allowed []string) Sort {
	field := "created_at"
	if slices.Contains(allowed, sortBy) {
		field = sortBy
	}
	return Sort{Field: field, Desc: !strings.EqualFold(sortOrder, "asc")}
}
