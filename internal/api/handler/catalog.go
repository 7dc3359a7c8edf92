package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// CatalogHandler serves the client-facing product browsing endpoints.
type CatalogHandler struct {
	catalog service.CatalogService
	i18n    *i18n.Manager
}

func NewCatalogHandler(catalog service.CatalogService, i18n *i18n.Manager) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, i18n: i18n}
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, categories)
}

func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondBadPayload(r.Context(), w, h.i18n)
			return
		}
		filter.CategoryID = &id
	}
	if raw := r.URL.Query().Get("in_stock"); raw == "1" || strings.EqualFold(raw, "true") {
		filter.InStockOnly = true
	}

	page, err := h.catalog.Products(r.Context(), filter)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, page)
}

func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "product.not_found", h.i18n)
		return
	}
	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, product)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
