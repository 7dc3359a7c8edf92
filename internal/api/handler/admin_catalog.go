package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/service"
	"github.com/amniuelmohamed/freshconcept/internal/support/i18n"
)

// AdminCatalogHandler serves the back-office category and product endpoints.
type AdminCatalogHandler struct {
	catalog service.AdminCatalogService
	i18n    *i18n.Manager
}

func NewAdminCatalogHandler(catalog service.AdminCatalogService, i18n *i18n.Manager) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalog: catalog, i18n: i18n}
}

type categoryRequest struct {
	Name    string `json:"name"`
	Sort    int64  `json:"sort"`
	Visible bool   `json:"visible"`
}

type categorySortRequest struct {
	IDs []int64 `json:"ids"`
}

type productRequest struct {
	CategoryID  int64  `json:"category_id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	PriceCents  int64  `json:"price_cents"`
	InStock     bool   `json:"in_stock"`
	Visible     bool   `json:"visible"`
	Sort        int64  `json:"sort"`
}

func (p productRequest) input() service.ProductInput {
	return service.ProductInput{
		CategoryID:  p.CategoryID,
		SKU:         strings.TrimSpace(p.SKU),
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Unit:        strings.TrimSpace(p.Unit),
		PriceCents:  p.PriceCents,
		InStock:     p.InStock,
		Visible:     p.Visible,
		Sort:        p.Sort,
	}
}

func (h *AdminCatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, categories)
}

func (h *AdminCatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), service.CategoryInput{
		Name:    strings.TrimSpace(payload.Name),
		Sort:    payload.Sort,
		Visible: payload.Visible,
	})
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusCreated, category)
}

func (h *AdminCatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "category.not_found", h.i18n)
		return
	}
	var payload categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	category, err := h.catalog.UpdateCategory(r.Context(), id, service.CategoryInput{
		Name:    strings.TrimSpace(payload.Name),
		Sort:    payload.Sort,
		Visible: payload.Visible,
	})
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, category)
}

func (h *AdminCatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "category.not_found", h.i18n)
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// SortCategories applies the full ordering sent by the back office.
func (h *AdminCatalogHandler) SortCategories(w http.ResponseWriter, r *http.Request) {
	var payload categorySortRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.IDs) == 0 {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	if err := h.catalog.SortCategories(r.Context(), payload.IDs); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AdminCatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  queryInt(r, "limit", 50),
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

	products, total, err := h.catalog.Products(r.Context(), filter)
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"products": products, "total": total})
}

func (h *AdminCatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
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

func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), payload.input())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusCreated, product)
}

func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "product.not_found", h.i18n)
		return
	}
	var payload productRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBadPayload(r.Context(), w, h.i18n)
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), id, payload.input())
	if err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondData(w, http.StatusOK, product)
}

func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondErrorKey(r.Context(), w, http.StatusNotFound, "product.not_found", h.i18n)
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		respondServiceError(r.Context(), w, err, h.i18n)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
