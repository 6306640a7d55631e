package taxonomy

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for taxonomy domain operations.
type System interface {
	Handler() *Handler

	ListGroups(ctx context.Context) ([]GovernanceGroup, error)
	FindGroup(ctx context.Context, slug string) (*GovernanceGroup, error)
	CreateGroup(ctx context.Context, cmd CreateGroupCommand) (*GovernanceGroup, error)
	UpdateGroup(ctx context.Context, slug string, cmd UpdateGroupCommand) (*GovernanceGroup, error)
	DeleteGroup(ctx context.Context, slug string) error

	ListNodes(ctx context.Context, filters NodeFilters) ([]Node, error)
	FindNode(ctx context.Context, id uuid.UUID) (*NodeDetail, error)
	CreateNode(ctx context.Context, cmd CreateNodeCommand) (*Node, error)
	UpdateNode(ctx context.Context, id uuid.UUID, cmd UpdateNodeCommand) (*Node, error)
	DeleteNode(ctx context.Context, id uuid.UUID) error

	Subtree(ctx context.Context, id uuid.UUID) ([]Node, error)
	SearchNodes(ctx context.Context, term string) ([]Node, error)

	// ResolvePath renders the human-readable ancestry of a node,
	// e.g. "Security (Software) > Endpoint Security > EDR".
	ResolvePath(ctx context.Context, id uuid.UUID) (string, error)
}
