package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/toolshed/internal/service"
)

// CatalogHandler serves the group and category listings. Single gets attach
// the member projects to the returned record.
type CatalogHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// HandleGroups returns all groups.
//
// HTTP: GET /groups
func (h *CatalogHandler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.catalog.Groups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, groups)
}

// HandleGroup returns a single group with its projects.
//
// HTTP: GET /groups/{id}
func (h *CatalogHandler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.catalog.Group(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, group)
}

// HandleCategories returns all categories.
//
// HTTP: GET /categories
func (h *CatalogHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, categories)
}

// HandleCategory returns a single category with its projects.
//
// HTTP: GET /categories/{id}
func (h *CatalogHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.Category(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, category)
}
