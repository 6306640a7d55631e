package seed

import (
	"bytes"
	"testing"
)

func TestMakeID(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := MakeID("security")
		b := MakeID("security")
		if a != b {
			t.Errorf("MakeID not deterministic: %s != %s", a, b)
		}
	})

	t.Run("distinct names yield distinct ids", func(t *testing.T) {
		if MakeID("security") == MakeID("networking") {
			t.Error("different names produced the same id")
		}
	})

	t.Run("version 5 uuid", func(t *testing.T) {
		id := MakeID("security")
		if id.Version() != 5 {
			t.Errorf("version = %d, want 5", id.Version())
		}
	})

	t.Run("slug and path ids differ", func(t *testing.T) {
		if MakeID("security") == MakeID("security_software.security") {
			t.Error("group slug and node path hashed to the same id")
		}
	})
}

func TestGroups(t *testing.T) {
	groups := Groups()

	if len(groups) != 10 {
		t.Fatalf("groups = %d, want 10", len(groups))
	}

	slugs := make(map[string]bool)
	orders := make(map[int]bool)
	software := 0
	dual := 0

	for _, g := range groups {
		if g.Name == "" || g.Slug == "" || g.Description == "" {
			t.Errorf("group %q has empty fields", g.Slug)
		}
		if slugs[g.Slug] {
			t.Errorf("duplicate group slug %q", g.Slug)
		}
		slugs[g.Slug] = true

		if orders[g.SortOrder] {
			t.Errorf("duplicate sort order %d", g.SortOrder)
		}
		orders[g.SortOrder] = true

		if !g.CoversSoftware {
			t.Errorf("group %q does not cover software", g.Slug)
		}
		if g.CoversHardware {
			dual++
		} else {
			software++
		}
	}

	if software != 5 || dual != 5 {
		t.Errorf("coverage split = %d software-only, %d dual, want 5 and 5", software, dual)
	}

	for i := 1; i <= 10; i++ {
		if !orders[i] {
			t.Errorf("missing sort order %d", i)
		}
	}
}

func TestDefaultDocument(t *testing.T) {
	doc, err := ParseDocument(bytes.NewReader(DefaultDocument()))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if err := Validate(doc); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	roots := 0
	levels := make(map[int]int)
	for _, n := range doc.Nodes {
		levels[n.Level]++
		if n.Level == 2 {
			roots++
		}
		if n.Level < 2 || n.Level > maxDepth {
			t.Errorf("node %q at level %d, want 2..%d", n.Path, n.Level, maxDepth)
		}
	}

	if roots != 15 {
		t.Errorf("roots = %d, want 15", roots)
	}
	if len(doc.Nodes) < 220 {
		t.Errorf("nodes = %d, want at least 220", len(doc.Nodes))
	}
	if levels[3] == 0 || levels[4] == 0 {
		t.Errorf("levels = %v, want depth through level 4", levels)
	}
}
