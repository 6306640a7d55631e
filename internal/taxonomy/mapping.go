package taxonomy

import (
	"net/url"
	"strconv"

	"github.com/sortinghat-io/sortinghat/pkg/query"
	"github.com/sortinghat-io/sortinghat/pkg/repository"
)

var groupProjection = query.
	NewProjectionMap("public", "governance_groups", "g").
	Project("id", "ID").
	Project("name", "Name").
	Project("slug", "Slug").
	Project("description", "Description").
	Project("covers_software", "CoversSoftware").
	Project("covers_hardware", "CoversHardware").
	Project("sort_order", "SortOrder").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var groupSort = []query.SortField{
	{Field: "SortOrder"},
	{Field: "Name"},
}

var nodeProjection = query.
	NewProjectionMap("public", "taxonomy_nodes", "n").
	Project("id", "ID").
	Project("group_id", "GroupID").
	Project("parent_id", "ParentID").
	Project("path", "Path").
	Project("name", "Name").
	Project("slug", "Slug").
	Project("level", "Level").
	Project("branch", "Branch").
	Project("definition", "Definition").
	Project("distinguishing_characteristics", "DistinguishingCharacteristics").
	Project("inclusions", "Inclusions").
	Project("exclusions", "Exclusions").
	Project("sort_order", "SortOrder").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "governance_groups", "g", "JOIN", "n.group_id = g.id").
	ProjectFilter("slug", "GroupSlug")

var nodeSort = []query.SortField{
	{Field: "Path"},
	{Field: "SortOrder"},
}

// NodeFilters contains optional filtering criteria for node listings.
// Nil fields are ignored. Group matches the owning governance group's slug.
type NodeFilters struct {
	Branch   *string `json:"branch,omitempty"`
	Group    *string `json:"governance_group,omitempty"`
	MaxLevel *int    `json:"max_level,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f NodeFilters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Branch", f.Branch).
		WhereEquals("GroupSlug", f.Group).
		WhereAtMost("Level", f.MaxLevel)
}

// NodeFiltersFromQuery extracts filter values from URL query parameters.
func NodeFiltersFromQuery(values url.Values) NodeFilters {
	var f NodeFilters

	if b := values.Get("branch"); b != "" {
		f.Branch = &b
	}

	if g := values.Get("governance_group"); g != "" {
		f.Group = &g
	}

	if ml := values.Get("max_level"); ml != "" {
		if v, err := strconv.Atoi(ml); err == nil {
			f.MaxLevel = &v
		}
	}

	return f
}

func scanGroup(s repository.Scanner) (GovernanceGroup, error) {
	var g GovernanceGroup
	err := s.Scan(
		&g.ID,
		&g.Name,
		&g.Slug,
		&g.Description,
		&g.CoversSoftware,
		&g.CoversHardware,
		&g.SortOrder,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

func scanNode(s repository.Scanner) (Node, error) {
	var n Node
	err := s.Scan(
		&n.ID,
		&n.GroupID,
		&n.ParentID,
		&n.Path,
		&n.Name,
		&n.Slug,
		&n.Level,
		&n.Branch,
		&n.Definition,
		&n.DistinguishingCharacteristics,
		&n.Inclusions,
		&n.Exclusions,
		&n.SortOrder,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}
