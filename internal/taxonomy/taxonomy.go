// Package taxonomy implements the product taxonomy domain: governance groups
// and the materialized-path node tree they own, with hierarchy operations
// used by both the HTTP API and the classification pipeline.
package taxonomy

import (
	"time"

	"github.com/google/uuid"
)

// Branch identifies which half of the taxonomy a node belongs to.
type Branch string

// Taxonomy branches.
const (
	BranchSoftware Branch = "software"
	BranchHardware Branch = "hardware"
)

// Valid reports whether the branch is one of the known values.
func (b Branch) Valid() bool {
	return b == BranchSoftware || b == BranchHardware
}

// GovernanceGroup represents a governance team that owns a set of taxonomy nodes.
type GovernanceGroup struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	CoversSoftware bool      `json:"covers_software"`
	CoversHardware bool      `json:"covers_hardware"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Node represents a single category in the taxonomy tree.
// Path is the dot-separated materialized path of slugs from the branch root.
// Level counts conceptual depth: level 2 nodes are group roots, deeper nodes
// are created under a parent.
type Node struct {
	ID                            uuid.UUID  `json:"id"`
	GroupID                       uuid.UUID  `json:"governance_group_id"`
	ParentID                      *uuid.UUID `json:"parent_id"`
	Path                          string     `json:"path"`
	Name                          string     `json:"name"`
	Slug                          string     `json:"slug"`
	Level                         int        `json:"level"`
	Branch                        Branch     `json:"branch"`
	Definition                    string     `json:"definition"`
	DistinguishingCharacteristics string     `json:"distinguishing_characteristics"`
	Inclusions                    string     `json:"inclusions"`
	Exclusions                    string     `json:"exclusions"`
	SortOrder                     int        `json:"sort_order"`
	CreatedAt                     time.Time  `json:"created_at"`
	UpdatedAt                     time.Time  `json:"updated_at"`
}

// NodeDetail is a node with its direct children and the chain of ancestors
// from the branch root down to its parent.
type NodeDetail struct {
	Node
	Children    []Node `json:"children"`
	ParentChain []Node `json:"parent_chain"`
}

// CreateGroupCommand carries the data needed to register a governance group.
// Slug is derived from Name when empty.
type CreateGroupCommand struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	CoversSoftware bool   `json:"covers_software"`
	CoversHardware bool   `json:"covers_hardware"`
	SortOrder      int    `json:"sort_order"`
}

// UpdateGroupCommand updates group metadata. Nil fields are left unchanged.
// The slug is immutable once assigned.
type UpdateGroupCommand struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	CoversSoftware *bool   `json:"covers_software"`
	CoversHardware *bool   `json:"covers_hardware"`
	SortOrder      *int    `json:"sort_order"`
}

// CreateNodeCommand carries the data needed to create a node under an
// existing parent. Slug, path, level, and group membership are derived from
// the parent; group roots come from the seed, never from this command.
type CreateNodeCommand struct {
	ParentID                      uuid.UUID `json:"parent_id"`
	Name                          string    `json:"name"`
	Branch                        Branch    `json:"branch"`
	Definition                    string    `json:"definition"`
	DistinguishingCharacteristics string    `json:"distinguishing_characteristics"`
	Inclusions                    string    `json:"inclusions"`
	Exclusions                    string    `json:"exclusions"`
	SortOrder                     int       `json:"sort_order"`
}

// UpdateNodeCommand updates node text and ordering. Nil fields are left
// unchanged. Name, slug, path, level, branch, and parent are immutable.
type UpdateNodeCommand struct {
	Definition                    *string `json:"definition"`
	DistinguishingCharacteristics *string `json:"distinguishing_characteristics"`
	Inclusions                    *string `json:"inclusions"`
	Exclusions                    *string `json:"exclusions"`
	SortOrder                     *int    `json:"sort_order"`
}
