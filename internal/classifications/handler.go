package classifications

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sortinghat-io/sortinghat/pkg/handlers"
	"github.com/sortinghat-io/sortinghat/pkg/pagination"
	"github.com/sortinghat-io/sortinghat/pkg/routes"
)

// Handler provides HTTP endpoints for classification operations.
type Handler struct {
	sys     System
	pageCfg pagination.Config
	logger  *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, pageCfg pagination.Config, logger *slog.Logger) *Handler {
	return &Handler{
		sys:     sys,
		pageCfg: pageCfg,
		logger:  logger.With("handler", "classifications"),
	}
}

// Routes returns the route group definition for classification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/classify",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Classify},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/page", Handler: h.Page},
		},
	}
}

// Classify submits a URL and runs the full pipeline synchronously.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var cmd SubmitCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	result, err := h.sys.Classify(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// List returns a window of classifications with optional url and status filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query(), h.pageCfg)

	result, err := h.sys.List(r.Context(), page, FiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a classification with its pipeline steps.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	detail, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}

// Page streams the raw HTML archived when the classification was scraped.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	page, err := h.sys.ArchivedPage(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer page.Close()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.Copy(w, page); err != nil {
		h.logger.Error("stream archived page failed", "id", id, "error", err)
	}
}
