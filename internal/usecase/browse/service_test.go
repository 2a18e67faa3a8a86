package browse

import (
	"fmt"
	"testing"

	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/product"
)

func snapshot(t *testing.T, names ...string) *domcat.Snapshot {
	t.Helper()
	products := make([]product.Product, len(names))
	for i, n := range names {
		p, err := product.New(product.Fields{Name: n})
		if err != nil {
			t.Fatalf("product.New: %v", err)
		}
		products[i] = p
	}
	return domcat.New("test", products)
}

func shirts(t *testing.T) *domcat.Snapshot {
	return snapshot(t, "Red Shirt", "Blue Shirt", "Red Hat")
}

func viewNames(vs []product.View) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSuggest(t *testing.T) {
	svc := New(Config{})
	snap := shirts(t)

	tests := []struct {
		name    string
		partial string
		want    []string
	}{
		{"too short", "sh", []string{}},
		{"min length", "shi", []string{"Red Shirt", "Blue Shirt"}},
		{"case-insensitive", "SHIRT", []string{"Red Shirt", "Blue Shirt"}},
		{"trimmed", "  hat ", []string{"Red Hat"}},
		{"short after trim", "  re  ", []string{}},
		{"no match", "sock", []string{}},
		{"empty", "", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.Suggest(snap, tc.partial)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if !equal(got, tc.want) {
				t.Errorf("Suggest(%q) = %v, want %v", tc.partial, got, tc.want)
			}
		})
	}
}

func TestSuggest_ShortQueryIgnoresCatalog(t *testing.T) {
	snap := snapshot(t, "ab", "abc", "ab ab")
	if got := New(Config{}).Suggest(snap, "ab"); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestSuggest_CountsRunes(t *testing.T) {
	snap := snapshot(t, "Café Crème")
	if got := New(Config{}).Suggest(snap, "fé "); len(got) != 0 {
		t.Errorf("two runes after trim should not match, got %v", got)
	}
	if got := New(Config{}).Suggest(snap, "CRÈ"); !equal(got, []string{"Café Crème"}) {
		t.Errorf("expected unicode fold match, got %v", got)
	}
}

func TestSuggest_Limit(t *testing.T) {
	names := make([]string, 25)
	for i := range names {
		names[i] = fmt.Sprintf("Shirt %02d", i)
	}
	snap := snapshot(t, names...)

	got := New(Config{}).Suggest(snap, "shirt")
	if len(got) != DefaultSuggestLimit {
		t.Fatalf("expected %d suggestions, got %d", DefaultSuggestLimit, len(got))
	}
	if got[0] != "Shirt 00" || got[9] != "Shirt 09" {
		t.Errorf("expected catalog order, got %v", got)
	}
}

func TestSuggest_AbsentCatalog(t *testing.T) {
	if got := New(Config{}).Suggest(domcat.Absent(), "shirt"); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestSearch(t *testing.T) {
	svc := New(Config{})
	snap := shirts(t)

	if got := viewNames(svc.Search(snap, "red", 0)); !equal(got, []string{"Red Shirt", "Red Hat"}) {
		t.Errorf("unexpected search result: %v", got)
	}
	if got := viewNames(svc.Search(snap, "red", 1)); !equal(got, []string{"Red Shirt"}) {
		t.Errorf("limit not applied: %v", got)
	}
	if got := svc.Search(snap, "  ", 10); len(got) != 0 {
		t.Errorf("blank query should match nothing, got %d", len(got))
	}
	if got := svc.Search(nil, "red", 10); len(got) != 0 {
		t.Errorf("nil snapshot should match nothing, got %d", len(got))
	}
}

func TestList(t *testing.T) {
	svc := New(Config{PageSize: 2, MaxPageSize: 5})
	snap := snapshot(t, "a1", "a2", "a3", "a4", "a5")

	tests := []struct {
		name          string
		offset, limit int
		want          []string
		wantLimit     int
	}{
		{"default page", 0, 0, []string{"a1", "a2"}, 2},
		{"second page", 2, 2, []string{"a3", "a4"}, 2},
		{"tail", 4, 2, []string{"a5"}, 2},
		{"past end", 10, 2, []string{}, 2},
		{"negative offset", -3, 1, []string{"a1"}, 1},
		{"clamped limit", 0, 50, []string{"a1", "a2", "a3", "a4", "a5"}, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page := svc.List(snap, tc.offset, tc.limit)
			if !equal(viewNames(page.Items), tc.want) {
				t.Errorf("items = %v, want %v", viewNames(page.Items), tc.want)
			}
			if page.Total != 5 {
				t.Errorf("total = %d, want 5", page.Total)
			}
			if page.Limit != tc.wantLimit {
				t.Errorf("limit = %d, want %d", page.Limit, tc.wantLimit)
			}
		})
	}
}

func TestList_AbsentCatalog(t *testing.T) {
	page := New(Config{}).List(domcat.Absent(), 0, 10)
	if page.Items == nil || len(page.Items) != 0 || page.Total != 0 {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestRandom(t *testing.T) {
	reverse := func(n, k int) []int {
		idx := make([]int, k)
		for i := range idx {
			idx[i] = n - 1 - i
		}
		return idx
	}
	svc := New(Config{}).WithSampler(reverse)

	got := viewNames(svc.Random(shirts(t), 2))
	if !equal(got, []string{"Red Hat", "Blue Shirt"}) {
		t.Errorf("unexpected random listing: %v", got)
	}
	if got := svc.Random(shirts(t), 50); len(got) != 3 {
		t.Errorf("expected whole catalog, got %d", len(got))
	}
	if got := svc.Random(domcat.Absent(), 5); len(got) != 0 {
		t.Errorf("expected empty, got %d", len(got))
	}
}

func TestRandom_Distinct(t *testing.T) {
	names := make([]string, 40)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	got := New(Config{}).Random(snapshot(t, names...), 0)
	if len(got) != DefaultPageSize {
		t.Fatalf("expected %d items, got %d", DefaultPageSize, len(got))
	}
	seen := make(map[string]bool)
	for _, v := range got {
		if seen[v.Name] {
			t.Errorf("duplicate %q", v.Name)
		}
		seen[v.Name] = true
	}
}
