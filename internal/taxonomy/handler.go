package taxonomy

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sortinghat-io/sortinghat/pkg/handlers"
	"github.com/sortinghat-io/sortinghat/pkg/routes"
)

// Handler provides HTTP endpoints for taxonomy operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "taxonomy"),
	}
}

// Routes returns the route group definition for taxonomy endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/taxonomy",
		Children: []routes.Group{
			{
				Prefix: "/governance-groups",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListGroups},
					{Method: "GET", Pattern: "/{slug}", Handler: h.FindGroup},
					{Method: "POST", Pattern: "", Handler: h.CreateGroup},
					{Method: "PUT", Pattern: "/{slug}", Handler: h.UpdateGroup},
					{Method: "DELETE", Pattern: "/{slug}", Handler: h.DeleteGroup},
				},
			},
			{
				Prefix: "/nodes",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListNodes},
					{Method: "GET", Pattern: "/search", Handler: h.SearchNodes},
					{Method: "GET", Pattern: "/{id}", Handler: h.FindNode},
					{Method: "GET", Pattern: "/{id}/subtree", Handler: h.Subtree},
					{Method: "POST", Pattern: "", Handler: h.CreateNode},
					{Method: "PUT", Pattern: "/{id}", Handler: h.UpdateNode},
					{Method: "DELETE", Pattern: "/{id}", Handler: h.DeleteNode},
				},
			},
		},
	}
}

// ListGroups returns all governance groups ordered by sort order.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.sys.ListGroups(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, groups)
}

// FindGroup returns a single governance group by its slug path parameter.
func (h *Handler) FindGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.sys.FindGroup(r.Context(), r.PathValue("slug"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, group)
}

// CreateGroup registers a new governance group.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var cmd CreateGroupCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	group, err := h.sys.CreateGroup(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, group)
}

// UpdateGroup updates governance group metadata by slug.
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateGroupCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	group, err := h.sys.UpdateGroup(r.Context(), r.PathValue("slug"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, group)
}

// DeleteGroup removes a governance group by slug. Groups with nodes are rejected.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.DeleteGroup(r.Context(), r.PathValue("slug")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNodes returns taxonomy nodes with optional branch, group, and level filters.
func (h *Handler) ListNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.sys.ListNodes(r.Context(), NodeFiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, nodes)
}

// SearchNodes returns nodes matching the q parameter, with their ancestors.
func (h *Handler) SearchNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.sys.SearchNodes(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, nodes)
}

// FindNode returns a node with its children and parent chain.
func (h *Handler) FindNode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	node, err := h.sys.FindNode(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, node)
}

// Subtree returns a node and all of its descendants in path order.
func (h *Handler) Subtree(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	nodes, err := h.sys.Subtree(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, nodes)
}

// CreateNode creates a node under an existing parent.
func (h *Handler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var cmd CreateNodeCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	node, err := h.sys.CreateNode(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, node)
}

// UpdateNode updates node text and ordering fields by id.
func (h *Handler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	var cmd UpdateNodeCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	node, err := h.sys.UpdateNode(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, node)
}

// DeleteNode removes a leaf node by id. Nodes with children are rejected.
func (h *Handler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	if err := h.sys.DeleteNode(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
