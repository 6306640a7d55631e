package taxonomy

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/sortinghat-io/sortinghat/pkg/query"
	"github.com/sortinghat-io/sortinghat/pkg/repository"
	"github.com/sortinghat-io/sortinghat/pkg/slug"
)

const searchLimit = 50

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a taxonomy repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "taxonomy"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) ListGroups(ctx context.Context) ([]GovernanceGroup, error) {
	q, args := query.NewBuilder(groupProjection, groupSort...).Build()

	groups, err := repository.QueryMany(ctx, r.db, q, args, scanGroup)
	if err != nil {
		return nil, fmt.Errorf("query governance groups: %w", err)
	}
	return groups, nil
}

func (r *repo) FindGroup(ctx context.Context, groupSlug string) (*GovernanceGroup, error) {
	q, args := query.NewBuilder(groupProjection).BuildSingle("Slug", groupSlug)

	g, err := repository.QueryOne(ctx, r.db, q, args, scanGroup)
	if err != nil {
		return nil, repository.MapError(err, ErrGroupNotFound, ErrDuplicateGroup)
	}
	return &g, nil
}

func (r *repo) CreateGroup(ctx context.Context, cmd CreateGroupCommand) (*GovernanceGroup, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrNameRequired
	}

	groupSlug := cmd.Slug
	if groupSlug == "" {
		groupSlug = slug.Slugify(cmd.Name)
	}

	q := `
		INSERT INTO governance_groups(id, name, slug, description, covers_software, covers_hardware, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, slug, description, covers_software, covers_hardware, sort_order, created_at, updated_at`

	args := []any{
		uuid.New(),
		cmd.Name,
		groupSlug,
		cmd.Description,
		cmd.CoversSoftware,
		cmd.CoversHardware,
		cmd.SortOrder,
	}

	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (GovernanceGroup, error) {
		return repository.QueryOne(ctx, tx, q, args, scanGroup)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrGroupNotFound, ErrDuplicateGroup)
	}

	r.logger.Info("governance group created", "slug", g.Slug)
	return &g, nil
}

func (r *repo) UpdateGroup(ctx context.Context, groupSlug string, cmd UpdateGroupCommand) (*GovernanceGroup, error) {
	q := `
		UPDATE governance_groups SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			covers_software = COALESCE($4, covers_software),
			covers_hardware = COALESCE($5, covers_hardware),
			sort_order = COALESCE($6, sort_order),
			updated_at = now()
		WHERE slug = $1
		RETURNING id, name, slug, description, covers_software, covers_hardware, sort_order, created_at, updated_at`

	args := []any{
		groupSlug,
		cmd.Name,
		cmd.Description,
		cmd.CoversSoftware,
		cmd.CoversHardware,
		cmd.SortOrder,
	}

	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (GovernanceGroup, error) {
		return repository.QueryOne(ctx, tx, q, args, scanGroup)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrGroupNotFound, ErrDuplicateGroup)
	}

	r.logger.Info("governance group updated", "slug", g.Slug)
	return &g, nil
}

func (r *repo) DeleteGroup(ctx context.Context, groupSlug string) error {
	g, err := r.FindGroup(ctx, groupSlug)
	if err != nil {
		return err
	}

	hasNodes, err := repository.QueryExists(
		ctx, r.db,
		"SELECT EXISTS(SELECT 1 FROM taxonomy_nodes WHERE group_id = $1)",
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("check group nodes: %w", err)
	}
	if hasNodes {
		return ErrGroupHasNodes
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM governance_groups WHERE id = $1",
			g.ID,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrGroupNotFound, ErrDuplicateGroup)
	}

	r.logger.Info("governance group deleted", "slug", groupSlug)
	return nil
}

func (r *repo) ListNodes(ctx context.Context, filters NodeFilters) ([]Node, error) {
	qb := query.NewBuilder(nodeProjection, nodeSort...)
	filters.Apply(qb)

	q, args := qb.Build()
	nodes, err := repository.QueryMany(ctx, r.db, q, args, scanNode)
	if err != nil {
		return nil, fmt.Errorf("query taxonomy nodes: %w", err)
	}
	return nodes, nil
}

func (r *repo) FindNode(ctx context.Context, id uuid.UUID) (*NodeDetail, error) {
	node, err := r.findNodeRow(ctx, id)
	if err != nil {
		return nil, err
	}

	children, err := r.childNodes(ctx, id)
	if err != nil {
		return nil, err
	}

	chain, err := r.parentChain(ctx, node)
	if err != nil {
		return nil, err
	}

	return &NodeDetail{
		Node:        *node,
		Children:    children,
		ParentChain: chain,
	}, nil
}

func (r *repo) CreateNode(ctx context.Context, cmd CreateNodeCommand) (*Node, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrNameRequired
	}
	if !cmd.Branch.Valid() {
		return nil, ErrInvalidBranch
	}

	parent, err := r.findNodeRow(ctx, cmd.ParentID)
	if err != nil {
		return nil, ErrParentNotFound
	}
	if parent.Branch != cmd.Branch {
		return nil, ErrBranchMismatch
	}

	group, err := r.groupByID(ctx, parent.GroupID)
	if err != nil {
		return nil, err
	}
	if cmd.Branch == BranchSoftware && !group.CoversSoftware {
		return nil, ErrBranchNotCovered
	}
	if cmd.Branch == BranchHardware && !group.CoversHardware {
		return nil, ErrBranchNotCovered
	}

	nodeSlug := slug.Slugify(cmd.Name)
	if nodeSlug == "" {
		return nil, ErrNameRequired
	}

	q := `
		INSERT INTO taxonomy_nodes(
			id, group_id, parent_id, path, name, slug, level, branch,
			definition, distinguishing_characteristics, inclusions, exclusions, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, group_id, parent_id, path, name, slug, level, branch,
			definition, distinguishing_characteristics, inclusions, exclusions,
			sort_order, created_at, updated_at`

	args := []any{
		uuid.New(),
		parent.GroupID,
		cmd.ParentID,
		slug.ChildPath(parent.Path, cmd.Name),
		cmd.Name,
		nodeSlug,
		parent.Level + 1,
		cmd.Branch,
		cmd.Definition,
		cmd.DistinguishingCharacteristics,
		cmd.Inclusions,
		cmd.Exclusions,
		cmd.SortOrder,
	}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Node, error) {
		return repository.QueryOne(ctx, tx, q, args, scanNode)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNodeNotFound, ErrDuplicateSlug)
	}

	r.logger.Info("taxonomy node created", "id", n.ID, "path", n.Path)
	return &n, nil
}

func (r *repo) UpdateNode(ctx context.Context, id uuid.UUID, cmd UpdateNodeCommand) (*Node, error) {
	q := `
		UPDATE taxonomy_nodes SET
			definition = COALESCE($2, definition),
			distinguishing_characteristics = COALESCE($3, distinguishing_characteristics),
			inclusions = COALESCE($4, inclusions),
			exclusions = COALESCE($5, exclusions),
			sort_order = COALESCE($6, sort_order),
			updated_at = now()
		WHERE id = $1
		RETURNING id, group_id, parent_id, path, name, slug, level, branch,
			definition, distinguishing_characteristics, inclusions, exclusions,
			sort_order, created_at, updated_at`

	args := []any{
		id,
		cmd.Definition,
		cmd.DistinguishingCharacteristics,
		cmd.Inclusions,
		cmd.Exclusions,
		cmd.SortOrder,
	}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Node, error) {
		return repository.QueryOne(ctx, tx, q, args, scanNode)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNodeNotFound, ErrDuplicateSlug)
	}

	r.logger.Info("taxonomy node updated", "id", n.ID, "path", n.Path)
	return &n, nil
}

func (r *repo) DeleteNode(ctx context.Context, id uuid.UUID) error {
	if _, err := r.findNodeRow(ctx, id); err != nil {
		return err
	}

	hasChildren, err := repository.QueryExists(
		ctx, r.db,
		"SELECT EXISTS(SELECT 1 FROM taxonomy_nodes WHERE parent_id = $1)",
		id,
	)
	if err != nil {
		return fmt.Errorf("check node children: %w", err)
	}
	if hasChildren {
		return ErrHasChildren
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM taxonomy_nodes WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNodeNotFound, ErrDuplicateSlug)
	}

	r.logger.Info("taxonomy node deleted", "id", id)
	return nil
}

func (r *repo) Subtree(ctx context.Context, id uuid.UUID) ([]Node, error) {
	node, err := r.findNodeRow(ctx, id)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE n.path = $1 OR n.path LIKE $2 ORDER BY n.path, n.sort_order",
		nodeProjection.Columns(),
		nodeProjection.From(),
	)

	nodes, err := repository.QueryMany(ctx, r.db, q, []any{node.Path, node.Path + ".%"}, scanNode)
	if err != nil {
		return nil, fmt.Errorf("query subtree: %w", err)
	}
	return nodes, nil
}

func (r *repo) SearchNodes(ctx context.Context, term string) ([]Node, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrSearchTermShort
	}

	qb := query.
		NewBuilder(nodeProjection, nodeSort...).
		WhereSearch(&term, "Name", "Definition", "DistinguishingCharacteristics")

	q, args := qb.BuildWindow(searchLimit, 0)
	matches, err := repository.QueryMany(ctx, r.db, q, args, scanNode)
	if err != nil {
		return nil, fmt.Errorf("search taxonomy nodes: %w", err)
	}

	// Matches render as tree fragments, so pull in any missing ancestors.
	nodes, err := r.withAncestors(ctx, matches)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Path != nodes[j].Path {
			return nodes[i].Path < nodes[j].Path
		}
		return nodes[i].SortOrder < nodes[j].SortOrder
	})

	return nodes, nil
}

func (r *repo) ResolvePath(ctx context.Context, id uuid.UUID) (string, error) {
	node, err := r.findNodeRow(ctx, id)
	if err != nil {
		return "", err
	}

	chain, err := r.parentChain(ctx, node)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(chain)+1)
	for _, n := range chain {
		names = append(names, n.Name)
	}
	names = append(names, node.Name)

	return strings.Join(names, " > "), nil
}

func (r *repo) findNodeRow(ctx context.Context, id uuid.UUID) (*Node, error) {
	q, args := query.NewBuilder(nodeProjection).BuildSingle("ID", id)

	n, err := repository.QueryOne(ctx, r.db, q, args, scanNode)
	if err != nil {
		return nil, repository.MapError(err, ErrNodeNotFound, ErrDuplicateSlug)
	}
	return &n, nil
}

func (r *repo) childNodes(ctx context.Context, parentID uuid.UUID) ([]Node, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE n.parent_id = $1 ORDER BY n.sort_order, n.name",
		nodeProjection.Columns(),
		nodeProjection.From(),
	)

	children, err := repository.QueryMany(ctx, r.db, q, []any{parentID}, scanNode)
	if err != nil {
		return nil, fmt.Errorf("query node children: %w", err)
	}
	return children, nil
}

// parentChain walks materialized-path ancestors in a single query, ordered
// from the branch root down to the direct parent.
func (r *repo) parentChain(ctx context.Context, node *Node) ([]Node, error) {
	ancestors := slug.AncestorPaths(node.Path)
	if len(ancestors) == 0 {
		return []Node{}, nil
	}

	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE n.path = ANY($1) ORDER BY n.level",
		nodeProjection.Columns(),
		nodeProjection.From(),
	)

	chain, err := repository.QueryMany(ctx, r.db, q, []any{ancestors}, scanNode)
	if err != nil {
		return nil, fmt.Errorf("query parent chain: %w", err)
	}
	return chain, nil
}

func (r *repo) groupByID(ctx context.Context, id uuid.UUID) (*GovernanceGroup, error) {
	q, args := query.NewBuilder(groupProjection).BuildSingle("ID", id)

	g, err := repository.QueryOne(ctx, r.db, q, args, scanGroup)
	if err != nil {
		return nil, repository.MapError(err, ErrGroupNotFound, ErrDuplicateGroup)
	}
	return &g, nil
}

func (r *repo) withAncestors(ctx context.Context, matches []Node) ([]Node, error) {
	present := make(map[string]bool, len(matches))
	for _, n := range matches {
		present[n.Path] = true
	}

	missing := make([]string, 0)
	seen := make(map[string]bool)
	for _, n := range matches {
		for _, p := range slug.AncestorPaths(n.Path) {
			if !present[p] && !seen[p] {
				seen[p] = true
				missing = append(missing, p)
			}
		}
	}

	if len(missing) == 0 {
		return matches, nil
	}

	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE n.path = ANY($1)",
		nodeProjection.Columns(),
		nodeProjection.From(),
	)

	ancestors, err := repository.QueryMany(ctx, r.db, q, []any{missing}, scanNode)
	if err != nil {
		return nil, fmt.Errorf("query search ancestors: %w", err)
	}

	return append(matches, ancestors...), nil
}
