package pagination

import "testing"

func TestValidateClampsParams(t *testing.T) {
	cases := []struct {
		page, perPage         int
		wantPage, wantPerPage int
	}{
		{0, 0, 1, DefaultPerPage},
		{-3, 10, 1, 10},
		{2, 500, 2, MaxPerPage},
		{4, 25, 4, 25},
	}
	for _, tc := range cases {
		p := NewParams(tc.page, tc.perPage)
		if p.Page != tc.wantPage || p.PerPage != tc.wantPerPage {
			t.Fatalf("(%d,%d) expected (%d,%d), got (%d,%d)",
				tc.page, tc.perPage, tc.wantPage, tc.wantPerPage, p.Page, p.PerPage)
		}
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	if p.TotalPages != 4 {
		t.Fatalf("expected 4 pages, got %d", p.TotalPages)
	}
	if !p.HasNext || !p.HasPrev {
		t.Fatalf("expected both next and prev on page 2 of 4")
	}

	last := NewPagination(4, 10, 35)
	if last.HasNext {
		t.Fatalf("did not expect next on the last page")
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	got := Slice(items, &PaginationParams{Page: 2, PerPage: 3})
	if len(got) != 3 || got[0] != 4 {
		t.Fatalf("unexpected page 2: %v", got)
	}

	got = Slice(items, &PaginationParams{Page: 3, PerPage: 3})
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("unexpected page 3: %v", got)
	}

	got = Slice(items, &PaginationParams{Page: 9, PerPage: 3})
	if len(got) != 0 {
		t.Fatalf("expected empty page past the end, got %v", got)
	}

	if got := Slice(items, nil); len(got) != len(items) {
		t.Fatalf("nil params should return all items")
	}
}

func TestNewPaginatedResultNeverNil(t *testing.T) {
	res := NewPaginatedResult[string](nil, NewPagination(1, 15, 0))
	if res.Items == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}
