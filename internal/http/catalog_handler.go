package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalog *catalog.Service
	timeout time.Duration
}

func NewCatalogHandler(catalogSvc *catalog.Service, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalogSvc,
		timeout: timeout,
	}
}

func (h *CatalogHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	entities, err := h.catalog.ListEntities(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entities)
}

func (h *CatalogHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	kind, ok := domain.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_kind", "kind must be top, bottom or outfit")
		return
	}

	entity, err := h.catalog.GetEntity(ctx, kind, chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entity)
}

func (h *CatalogHandler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	kind, ok := domain.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_kind", "kind must be top, bottom or outfit")
		return
	}

	var entity domain.CatalogEntity
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	entity.Kind = kind

	if err := h.catalog.CreateEntity(ctx, &entity); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, entity)
}

func (h *CatalogHandler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	kind, ok := domain.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_kind", "kind must be top, bottom or outfit")
		return
	}

	if err := h.catalog.DeleteEntity(ctx, kind, chi.URLParam(r, "id")); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
