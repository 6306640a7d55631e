package seed

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestEmitSQL(t *testing.T) {
	doc := validDocument(t)

	var buf bytes.Buffer
	if err := EmitSQL(&buf, doc); err != nil {
		t.Fatalf("EmitSQL: %v", err)
	}
	sql := buf.String()

	t.Run("reruns are byte identical", func(t *testing.T) {
		var again bytes.Buffer
		if err := EmitSQL(&again, doc); err != nil {
			t.Fatalf("EmitSQL: %v", err)
		}
		if sql != again.String() {
			t.Error("two runs over the same document differ")
		}
	})

	t.Run("statements are idempotent", func(t *testing.T) {
		inserts := strings.Count(sql, "INSERT INTO")
		conflicts := strings.Count(sql, "ON CONFLICT (id) DO NOTHING")
		if inserts == 0 {
			t.Fatal("no insert statements emitted")
		}
		if inserts != conflicts {
			t.Errorf("inserts = %d, conflict clauses = %d", inserts, conflicts)
		}
	})

	t.Run("groups precede nodes", func(t *testing.T) {
		groupIdx := strings.Index(sql, "INSERT INTO governance_groups")
		nodeIdx := strings.Index(sql, "INSERT INTO taxonomy_nodes")
		if groupIdx < 0 || nodeIdx < 0 {
			t.Fatal("missing insert statements")
		}
		if groupIdx > nodeIdx {
			t.Error("node inserts emitted before group inserts")
		}
	})

	t.Run("parents emitted before children", func(t *testing.T) {
		for _, n := range doc.Nodes {
			if n.ParentPath == "" {
				continue
			}
			childIdx := strings.Index(sql, fmt.Sprintf("'%s'", MakeID(n.Path)))
			parentIdx := strings.Index(sql, fmt.Sprintf("'%s'", MakeID(n.ParentPath)))
			if childIdx < 0 || parentIdx < 0 {
				t.Fatalf("missing ids for %q", n.Path)
			}
			if parentIdx > childIdx {
				t.Errorf("node %q emitted before its parent", n.Path)
			}
		}
	})

	t.Run("roots carry null parent", func(t *testing.T) {
		for _, n := range doc.Nodes {
			if n.Level == 2 && !strings.Contains(sql, fmt.Sprintf("'%s', NULL, '%s'", MakeID(n.GroupSlug), n.Path)) {
				t.Errorf("root %q missing NULL parent", n.Path)
			}
		}
	})

	t.Run("node ids derive from paths", func(t *testing.T) {
		for _, n := range doc.Nodes {
			if !strings.Contains(sql, MakeID(n.Path).String()) {
				t.Errorf("missing id for path %q", n.Path)
			}
		}
	})
}

func TestEscapeSQL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no quotes", "plain text", "plain text"},
		{"single quote", "product's page", "product''s page"},
		{"multiple quotes", "it's the vendor's", "it''s the vendor''s"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeSQL(tt.input); got != tt.want {
				t.Errorf("escapeSQL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEmitSQLEscapesQuotes(t *testing.T) {
	doc := validDocument(t)
	doc.Nodes[0].Definition = "Protects the vendor's systems."

	var buf bytes.Buffer
	if err := EmitSQL(&buf, doc); err != nil {
		t.Fatalf("EmitSQL: %v", err)
	}

	if !strings.Contains(buf.String(), "vendor''s") {
		t.Error("single quote not doubled in emitted SQL")
	}
}
