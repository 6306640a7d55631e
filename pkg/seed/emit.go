package seed

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// EmitSQL writes idempotent insert statements for the dataset. Groups are
// emitted first in sort order; nodes follow in non-decreasing level order so
// every parent row exists before its children under foreign-key constraints.
func EmitSQL(w io.Writer, doc *Document) error {
	var b strings.Builder

	b.WriteString("-- Sorting Hat taxonomy seed data\n")
	b.WriteString("-- Generated by seedgen; regenerate rather than editing by hand.\n\n")

	b.WriteString("-- Governance groups\n")
	groups := make([]Group, len(doc.Groups))
	copy(groups, doc.Groups)
	sort.Slice(groups, func(i, j int) bool { return groups[i].SortOrder < groups[j].SortOrder })

	for _, g := range groups {
		fmt.Fprintf(
			&b,
			"INSERT INTO governance_groups (id, name, slug, description, covers_software, covers_hardware, sort_order)\n"+
				"VALUES ('%s', '%s', '%s', '%s', %s, %s, %d)\n"+
				"ON CONFLICT (id) DO NOTHING;\n",
			MakeID(g.Slug),
			escapeSQL(g.Name),
			g.Slug,
			escapeSQL(g.Description),
			sqlBool(g.CoversSoftware),
			sqlBool(g.CoversHardware),
			g.SortOrder,
		)
	}

	b.WriteString("\n-- Taxonomy nodes\n")
	nodes := make([]*Node, len(doc.Nodes))
	copy(nodes, doc.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Level != nodes[j].Level {
			return nodes[i].Level < nodes[j].Level
		}
		return nodes[i].Path < nodes[j].Path
	})

	for _, n := range nodes {
		parentID := "NULL"
		if n.ParentPath != "" {
			parentID = fmt.Sprintf("'%s'", MakeID(n.ParentPath))
		}

		fmt.Fprintf(
			&b,
			"INSERT INTO taxonomy_nodes (id, group_id, parent_id, path, name, slug, level, branch, definition, distinguishing_characteristics, inclusions, exclusions, sort_order)\n"+
				"VALUES ('%s', '%s', %s, '%s', '%s', '%s', %d, '%s', '%s', '%s', '%s', '%s', %d)\n"+
				"ON CONFLICT (id) DO NOTHING;\n",
			MakeID(n.Path),
			MakeID(n.GroupSlug),
			parentID,
			n.Path,
			escapeSQL(n.Name),
			n.Slug,
			n.Level,
			n.Branch,
			escapeSQL(n.Definition),
			escapeSQL(n.DistinguishingCharacteristics),
			escapeSQL(n.Inclusions),
			escapeSQL(n.Exclusions),
			n.SortOrder,
		)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(text string) string {
	return strings.ReplaceAll(text, "'", "''")
}

func sqlBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
