package seed

import (
	"fmt"

	"github.com/sortinghat-io/sortinghat/pkg/slug"
)

// Validate checks the structural invariants of a parsed seed dataset. A
// dataset that fails validation must not be emitted.
func Validate(doc *Document) error {
	groups := make(map[string]Group, len(doc.Groups))
	for _, g := range doc.Groups {
		if _, ok := groups[g.Slug]; ok {
			return fmt.Errorf("duplicate group slug %q", g.Slug)
		}
		groups[g.Slug] = g
	}

	paths := make(map[string]*Node, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if _, ok := paths[n.Path]; ok {
			return fmt.Errorf("duplicate node path %q", n.Path)
		}
		paths[n.Path] = n
	}

	rootCount := 0
	rootsPerGroup := make(map[string]int)
	branchesPerGroup := make(map[string]map[string]bool)

	for _, n := range doc.Nodes {
		group, ok := groups[n.GroupSlug]
		if !ok {
			return fmt.Errorf("node %q references unknown group %q", n.Path, n.GroupSlug)
		}

		for _, label := range slug.Labels(n.Path) {
			if !slug.ValidLabel(label) {
				return fmt.Errorf("node %q has invalid path label %q", n.Path, label)
			}
		}

		if n.Definition == "" {
			return fmt.Errorf("node %q has no definition", n.Path)
		}

		if n.Branch != BranchSoftware && n.Branch != BranchHardware {
			return fmt.Errorf("node %q has invalid branch %q", n.Path, n.Branch)
		}
		if n.Branch == BranchSoftware && !group.CoversSoftware {
			return fmt.Errorf("node %q is software but group %q does not cover software", n.Path, group.Slug)
		}
		if n.Branch == BranchHardware && !group.CoversHardware {
			return fmt.Errorf("node %q is hardware but group %q does not cover hardware", n.Path, group.Slug)
		}

		if n.Level == 2 {
			if n.ParentPath != "" {
				return fmt.Errorf("root node %q declares parent %q", n.Path, n.ParentPath)
			}
			rootCount++
			rootsPerGroup[n.GroupSlug]++
		} else {
			parent, ok := paths[n.ParentPath]
			if !ok {
				return fmt.Errorf("node %q declares missing parent path %q", n.Path, n.ParentPath)
			}
			if parent.Level != n.Level-1 {
				return fmt.Errorf("node %q at level %d has parent %q at level %d", n.Path, n.Level, parent.Path, parent.Level)
			}
			if parent.Branch != n.Branch {
				return fmt.Errorf("node %q branch %q differs from parent %q branch %q", n.Path, n.Branch, parent.Path, parent.Branch)
			}
		}

		if branchesPerGroup[n.GroupSlug] == nil {
			branchesPerGroup[n.GroupSlug] = make(map[string]bool)
		}
		branchesPerGroup[n.GroupSlug][n.Branch] = true
	}

	expectedRoots := 0
	for _, g := range doc.Groups {
		expected := 1
		if g.CoversSoftware && g.CoversHardware {
			expected = 2
		}
		expectedRoots += expected

		if got := rootsPerGroup[g.Slug]; got != expected {
			return fmt.Errorf("group %q has %d root nodes, expected %d", g.Slug, got, expected)
		}
		if g.CoversSoftware && g.CoversHardware {
			if !branchesPerGroup[g.Slug][BranchSoftware] || !branchesPerGroup[g.Slug][BranchHardware] {
				return fmt.Errorf("dual-branch group %q does not span both branches", g.Slug)
			}
		}
	}

	if rootCount != expectedRoots {
		return fmt.Errorf("dataset has %d root nodes, expected %d", rootCount, expectedRoots)
	}

	return nil
}
