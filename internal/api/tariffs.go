package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bher20/tariffmanager/internal/catalog"
	"github.com/bher20/tariffmanager/internal/tariff"
)

// ListTariffs returns the catalog, optionally narrowed by type and segment.
// @Summary List tariffs
// @Tags Tariffs
// @Produce json
// @Param type query string false "electricity or gas"
// @Param segment query string false "residential or business"
// @Success 200 {array} tariff.Tariff
// @Security BearerAuth
// @Router /tariffs [get]
func (h *Handler) ListTariffs(w http.ResponseWriter, r *http.Request) {
	typ := tariff.Type(r.URL.Query().Get("type"))
	seg := tariff.Segment(r.URL.Query().Get("segment"))

	list, err := h.catalog.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	out := make([]tariff.Tariff, 0, len(list))
	for _, t := range list {
		if (typ == "" || t.Type == typ) && (seg == "" || t.CustomerSegment == seg) {
			out = append(out, t)
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// CreateTariff adds a tariff. Any id in the body is ignored.
// @Summary Create tariff
// @Tags Tariffs
// @Accept json
// @Produce json
// @Param tariff body tariff.Tariff true "Tariff"
// @Success 201 {object} tariff.Tariff
// @Failure 400 {object} APIError
// @Security BearerAuth
// @Router /tariffs [post]
func (h *Handler) CreateTariff(w http.ResponseWriter, r *http.Request) {
	var t tariff.Tariff
	if err := decodeJSON(w, r, &t); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.catalog.Add(r.Context(), t)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetTariff returns one tariff.
// @Summary Get tariff
// @Tags Tariffs
// @Produce json
// @Param id path string true "Tariff ID"
// @Success 200 {object} tariff.Tariff
// @Failure 404 {object} APIError
// @Security BearerAuth
// @Router /tariffs/{id} [get]
func (h *Handler) GetTariff(w http.ResponseWriter, r *http.Request) {
	t, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// UpdateTariff applies a partial update.
// @Summary Update tariff
// @Tags Tariffs
// @Accept json
// @Produce json
// @Param id path string true "Tariff ID"
// @Param patch body catalog.Patch true "Fields to change"
// @Success 200 {object} tariff.Tariff
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Security BearerAuth
// @Router /tariffs/{id} [patch]
func (h *Handler) UpdateTariff(w http.ResponseWriter, r *http.Request) {
	var p catalog.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// DeleteTariff removes a tariff. Unknown ids still answer 204.
// @Summary Delete tariff
// @Tags Tariffs
// @Param id path string true "Tariff ID"
// @Success 204
// @Security BearerAuth
// @Router /tariffs/{id} [delete]
func (h *Handler) DeleteTariff(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncCatalog runs the catalog sync job now.
// @Summary Sync catalog presets from the backend
// @Tags Catalog
// @Produce json
// @Success 200 {object} SyncResponse
// @Failure 503 {object} APIError
// @Security BearerAuth
// @Router /catalog/sync [post]
func (h *Handler) SyncCatalog(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		respondWithError(w, http.StatusServiceUnavailable, "catalog sync not configured")
		return
	}
	ran, added, err := h.syncer.RunJob(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, SyncResponse{Ran: ran, Added: added})
}

// SyncResponse reports one catalog sync run.
type SyncResponse struct {
	Ran   bool `json:"ran"`
	Added int  `json:"added"`
}
