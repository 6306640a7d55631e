package query_test

import (
	"testing"

	"github.com/sortinghat-io/sortinghat/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func testProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "widgets", "w").
		Project("id", "ID").
		Project("name", "Name").
		Project("status", "Status").
		Project("level", "Level")
}

func TestProjectionMap(t *testing.T) {
	t.Run("columns and from", func(t *testing.T) {
		p := testProjection()

		if got := p.Columns(); got != "w.id, w.name, w.status, w.level" {
			t.Errorf("Columns() = %q", got)
		}
		if got := p.From(); got != "public.widgets w" {
			t.Errorf("From() = %q", got)
		}
		if got := p.Alias(); got != "w" {
			t.Errorf("Alias() = %q", got)
		}
	})

	t.Run("column lookup", func(t *testing.T) {
		p := testProjection()

		if got := p.Column("Name"); got != "w.name" {
			t.Errorf("Column(Name) = %q", got)
		}
		if got := p.Column("Unknown"); got != "Unknown" {
			t.Errorf("Column(Unknown) = %q, want passthrough", got)
		}
	})

	t.Run("join shifts projection alias", func(t *testing.T) {
		p := query.
			NewProjectionMap("public", "widgets", "w").
			Project("id", "ID").
			Join("public", "owners", "o", "JOIN", "w.owner_id = o.id").
			ProjectFilter("slug", "OwnerSlug")

		wantFrom := "public.widgets w JOIN public.owners o ON w.owner_id = o.id"
		if got := p.From(); got != wantFrom {
			t.Errorf("From() = %q, want %q", got, wantFrom)
		}
		if got := p.Column("OwnerSlug"); got != "o.slug" {
			t.Errorf("Column(OwnerSlug) = %q, want o.slug", got)
		}
		if got := p.Columns(); got != "w.id" {
			t.Errorf("Columns() = %q, filter column leaked into select list", got)
		}
	})
}

func TestBuilderBuild(t *testing.T) {
	t.Run("no conditions", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).Build()

		want := "SELECT w.id, w.name, w.status, w.level FROM public.widgets w"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("conditions numbered sequentially", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).
			WhereEquals("Status", ptr("active")).
			WhereContains("Name", ptr("gear")).
			Build()

		want := "SELECT w.id, w.name, w.status, w.level FROM public.widgets w WHERE w.status = $1 AND w.name ILIKE $2"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 2 {
			t.Fatalf("args length = %d, want 2", len(args))
		}
		if args[1] != "%gear%" {
			t.Errorf("args[1] = %v, want %%gear%%", args[1])
		}
	})

	t.Run("default sort applied", func(t *testing.T) {
		sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "Name"}).Build()

		want := "SELECT w.id, w.name, w.status, w.level FROM public.widgets w ORDER BY w.name ASC"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})

	t.Run("explicit sort overrides default", func(t *testing.T) {
		sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "Name"}).
			OrderByFields([]query.SortField{{Field: "Level", Descending: true}}).
			Build()

		want := "SELECT w.id, w.name, w.status, w.level FROM public.widgets w ORDER BY w.level DESC"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})
}

func TestBuilderBuildCount(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Status", ptr("active")).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.widgets w WHERE w.status = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want 1", args)
	}
}

func TestBuilderBuildWindow(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "Name"}).
		WhereEquals("Status", ptr("active")).
		BuildWindow(20, 40)

	want := "SELECT w.id, w.name, w.status, w.level FROM public.widgets w WHERE w.status = $1 ORDER BY w.name ASC LIMIT 20 OFFSET 40"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("ID", 42)

	want := "SELECT w.id, w.name, w.status, w.level FROM public.widgets w WHERE w.id = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != 42 {
		t.Errorf("args = %v, want [42]", args)
	}
}

func TestBuilderConditions(t *testing.T) {
	t.Run("nil values are no-ops", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).
			WhereEquals("Status", (*string)(nil)).
			WhereContains("Name", nil).
			WhereAtMost("Level", (*int)(nil)).
			WhereSearch(nil, "Name").
			Build()

		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
		want := "SELECT w.id, w.name, w.status, w.level FROM public.widgets w"
		if sql != want {
			t.Errorf("sql = %q, want no WHERE clause", sql)
		}
	})

	t.Run("empty string contains is a no-op", func(t *testing.T) {
		_, args := query.NewBuilder(testProjection()).
			WhereContains("Name", ptr("")).
			Build()

		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("at most condition", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).
			WhereAtMost("Level", ptr(3)).
			Build()

		want := "SELECT w.id, w.name, w.status, w.level FROM public.widgets w WHERE w.level <= $1"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 1 {
			t.Errorf("args = %v, want 1", args)
		}
	})

	t.Run("nullable condition", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).
			WhereNullable("Status", nil).
			Build()

		want := "SELECT w.id, w.name, w.status, w.level FROM public.widgets w WHERE w.status IS NULL"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}

		sql, args = query.NewBuilder(testProjection()).
			WhereNullable("Status", "active").
			Build()

		want = "SELECT w.id, w.name, w.status, w.level FROM public.widgets w WHERE w.status = $1"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 1 {
			t.Errorf("args = %v, want 1", args)
		}
	})

	t.Run("search spans fields with OR", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).
			WhereSearch(ptr("gear"), "Name", "Status").
			Build()

		want := "SELECT w.id, w.name, w.status, w.level FROM public.widgets w WHERE (w.name ILIKE $1 OR w.status ILIKE $2)"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 2 || args[0] != "%gear%" || args[1] != "%gear%" {
			t.Errorf("args = %v", args)
		}
	})
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{"single ascending", "name", []query.SortField{{Field: "name"}}},
		{"single descending", "-createdAt", []query.SortField{{Field: "createdAt", Descending: true}}},
		{"mixed", "name,-createdAt", []query.SortField{{Field: "name"}, {Field: "createdAt", Descending: true}}},
		{"whitespace and blanks", " name , ,-level ", []query.SortField{{Field: "name"}, {Field: "level", Descending: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("fields = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("field[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
