package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		name  string
		input int
		want  int
	}{
		{"zero uses default", 0, DefaultLimit},
		{"negative uses default", -5, DefaultLimit},
		{"within range passes through", 40, 40},
		{"above max is capped", 500, MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.input); got != tc.want {
				t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Offset(); got != 0 {
		t.Fatalf("expected offset 0 for first page, got %d", got)
	}
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	if got := (Params{Page: 0, Limit: 0}).Offset(); got != 0 {
		t.Fatalf("expected offset 0 for unset params, got %d", got)
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 10}, 25)
	if meta.Page != 2 || meta.Limit != 10 {
		t.Fatalf("unexpected normalized params in meta: %+v", meta)
	}
	if meta.Total != 25 {
		t.Fatalf("expected total 25, got %d", meta.Total)
	}
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", meta.TotalPages)
	}

	empty := NewMeta(Params{}, 0)
	if empty.TotalPages != 1 {
		t.Fatalf("expected at least one page for empty result, got %d", empty.TotalPages)
	}
}
