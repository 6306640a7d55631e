package taxonomy

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/sortinghat-io/sortinghat/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestBranchValid(t *testing.T) {
	tests := []struct {
		branch Branch
		want   bool
	}{
		{BranchSoftware, true},
		{BranchHardware, true},
		{Branch("firmware"), false},
		{Branch(""), false},
		{Branch("Software"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.branch), func(t *testing.T) {
			if got := tt.branch.Valid(); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.branch, got, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"group not found", ErrGroupNotFound, http.StatusNotFound},
		{"node not found", ErrNodeNotFound, http.StatusNotFound},
		{"duplicate group", ErrDuplicateGroup, http.StatusConflict},
		{"duplicate slug", ErrDuplicateSlug, http.StatusConflict},
		{"parent not found", ErrParentNotFound, http.StatusBadRequest},
		{"group has nodes", ErrGroupHasNodes, http.StatusBadRequest},
		{"has children", ErrHasChildren, http.StatusBadRequest},
		{"branch mismatch", ErrBranchMismatch, http.StatusBadRequest},
		{"branch not covered", ErrBranchNotCovered, http.StatusBadRequest},
		{"invalid branch", ErrInvalidBranch, http.StatusBadRequest},
		{"name required", ErrNameRequired, http.StatusBadRequest},
		{"search term short", ErrSearchTermShort, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", ErrNodeNotFound), http.StatusNotFound},
		{"wrapped duplicate", fmt.Errorf("insert failed: %w", ErrDuplicateSlug), http.StatusConflict},
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

func TestNodeFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"branch":           {"software"},
			"governance_group": {"security"},
			"max_level":        {"3"},
		}

		f := NodeFiltersFromQuery(values)

		if f.Branch == nil || *f.Branch != "software" {
			t.Errorf("Branch = %v, want software", f.Branch)
		}
		if f.Group == nil || *f.Group != "security" {
			t.Errorf("Group = %v, want security", f.Group)
		}
		if f.MaxLevel == nil || *f.MaxLevel != 3 {
			t.Errorf("MaxLevel = %v, want 3", f.MaxLevel)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := NodeFiltersFromQuery(url.Values{})

		if f.Branch != nil || f.Group != nil || f.MaxLevel != nil {
			t.Errorf("filters = %+v, want all nil", f)
		}
	})

	t.Run("invalid max_level ignored", func(t *testing.T) {
		f := NodeFiltersFromQuery(url.Values{"max_level": {"deep"}})

		if f.MaxLevel != nil {
			t.Errorf("MaxLevel = %v, want nil for invalid value", f.MaxLevel)
		}
	})
}

func TestNodeFiltersApply(t *testing.T) {
	t.Run("no filters produces no conditions", func(t *testing.T) {
		b := query.NewBuilder(nodeProjection)
		NodeFilters{}.Apply(b)
		_, args := b.Build()

		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("branch filter", func(t *testing.T) {
		b := query.NewBuilder(nodeProjection)
		NodeFilters{Branch: ptr("hardware")}.Apply(b)
		_, args := b.Build()

		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
	})

	t.Run("all filters combine", func(t *testing.T) {
		b := query.NewBuilder(nodeProjection)
		NodeFilters{
			Branch:   ptr("software"),
			Group:    ptr("security"),
			MaxLevel: ptr(3),
		}.Apply(b)
		_, args := b.Build()

		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
	})
}
