package classifications

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/sortinghat-io/sortinghat/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"no archive", ErrNoArchive, http.StatusNotFound},
		{"pipeline failure", ErrClassification, http.StatusBadRequest},
		{"invalid url", ErrInvalidURL, http.StatusBadRequest},
		{"invalid body", ErrInvalidBody, http.StatusBadRequest},
		{"invalid id", ErrInvalidID, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped pipeline failure", fmt.Errorf("%w: scrape stage: boom", ErrClassification), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"url":    {"example.com"},
			"status": {"classified"},
		}

		f := FiltersFromQuery(values)

		if f.URL == nil || *f.URL != "example.com" {
			t.Errorf("URL = %v, want example.com", f.URL)
		}
		if f.Status == nil || *f.Status != "classified" {
			t.Errorf("Status = %v, want classified", f.Status)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := FiltersFromQuery(url.Values{})

		if f.URL != nil {
			t.Errorf("URL = %v, want nil", f.URL)
		}
		if f.Status != nil {
			t.Errorf("Status = %v, want nil", f.Status)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(classificationProjection)
		Filters{}.Apply(b)
		_, args := b.Build()

		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("url contains filter", func(t *testing.T) {
		b := query.NewBuilder(classificationProjection)
		Filters{URL: ptr("example")}.Apply(b)
		_, args := b.Build()

		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
	})

	t.Run("status and url combine", func(t *testing.T) {
		b := query.NewBuilder(classificationProjection)
		Filters{URL: ptr("example"), Status: ptr("failed")}.Apply(b)
		_, args := b.Build()

		if len(args) != 2 {
			t.Errorf("args length = %d, want 2", len(args))
		}
	})
}

func TestUUIDArrayScan(t *testing.T) {
	a := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	b := uuid.MustParse("660e8400-e29b-41d4-a716-446655440000")

	tests := []struct {
		name string
		src  any
		want []uuid.UUID
	}{
		{"nil yields empty", nil, []uuid.UUID{}},
		{"empty braces", "{}", []uuid.UUID{}},
		{"single element", fmt.Sprintf("{%s}", a), []uuid.UUID{a}},
		{"two elements", fmt.Sprintf("{%s,%s}", a, b), []uuid.UUID{a, b}},
		{"quoted elements", fmt.Sprintf(`{"%s","%s"}`, a, b), []uuid.UUID{a, b}},
		{"byte slice source", []byte(fmt.Sprintf("{%s}", a)), []uuid.UUID{a}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var arr uuidArray
			if err := arr.Scan(tt.src); err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if len(arr) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(arr), len(tt.want))
			}
			for i := range tt.want {
				if arr[i] != tt.want[i] {
					t.Errorf("element[%d] = %s, want %s", i, arr[i], tt.want[i])
				}
			}
		})
	}

	t.Run("invalid element errors", func(t *testing.T) {
		var arr uuidArray
		if err := arr.Scan("{not-a-uuid}"); err == nil {
			t.Error("Scan accepted invalid uuid element")
		}
	})

	t.Run("unsupported source errors", func(t *testing.T) {
		var arr uuidArray
		if err := arr.Scan(42); err == nil {
			t.Error("Scan accepted int source")
		}
	})
}

func TestUUIDArrayValue(t *testing.T) {
	a := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	b := uuid.MustParse("660e8400-e29b-41d4-a716-446655440000")

	tests := []struct {
		name string
		arr  uuidArray
		want string
	}{
		{"empty", uuidArray{}, "{}"},
		{"single", uuidArray{a}, fmt.Sprintf("{%s}", a)},
		{"pair", uuidArray{a, b}, fmt.Sprintf("{%s,%s}", a, b)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.arr.Value()
			if err != nil {
				t.Fatalf("Value: %v", err)
			}
			if v != tt.want {
				t.Errorf("Value() = %v, want %s", v, tt.want)
			}
		})
	}
}

func TestUUIDArrayRoundTrip(t *testing.T) {
	original := uuidArray{uuid.New(), uuid.New()}

	v, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned uuidArray
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(scanned) != len(original) {
		t.Fatalf("length = %d, want %d", len(scanned), len(original))
	}
	for i := range original {
		if scanned[i] != original[i] {
			t.Errorf("element[%d] = %s, want %s", i, scanned[i], original[i])
		}
	}
}
