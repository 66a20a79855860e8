package repository

import "testing"

func TestResolveSort(t *testing.T) {
	cases := []struct {
		by, order string
		want      Sort
	}{
		{"name", "asc", Sort{Field: "name", Desc: false}},
		{"name", "ASC", Sort{Field: "name", Desc: false}},
		{"name", "", Sort{Field: "name", Desc: true}},
		{"", "asc", Sort{Field: "created_at", Desc: false}},
		{"name; DROP TABLE medicines", "asc", Sort{Field: "created_at", Desc: false}},
	}
	for _, tc := range cases {
		if got := ResolveSort(tc.by, tc.order, MedicineSortFields); got != tc.want {
			t.Fatalf("ResolveSort(%q, %q) = %+v, want %+v", tc.by, tc.order, got, tc.want)
		}
	}
	if got := (Sort{Field: "expiry_date"}).SQL(); got != "expiry_date ASC" {
		t.Fatalf("unexpected SQL %q", got)
	}
}
