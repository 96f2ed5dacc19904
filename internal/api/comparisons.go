package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bher20/tariffmanager/internal/billing"
	"github.com/bher20/tariffmanager/internal/compare"
	"github.com/bher20/tariffmanager/internal/export"
	"github.com/bher20/tariffmanager/internal/storage"
	"github.com/bher20/tariffmanager/internal/tariff"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// EvaluateRequest is the body of a comparison. Regulated falls back to the
// configured charges when omitted.
type EvaluateRequest struct {
	Type            tariff.Type         `json:"type" validate:"required,oneof=electricity gas"`
	CustomerSegment tariff.Segment      `json:"customerSegment" validate:"required,oneof=residential business"`
	CurrentBill     float64             `json:"currentBill" validate:"gte=0"`
	Consumption     billing.Consumption `json:"consumption"`
	Regulated       *billing.Regulated  `json:"regulated,omitempty"`
}

// ClientRequest is the client display data stored with a comparison.
type ClientRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	PrimaryColor   string `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondaryColor,omitempty" validate:"omitempty,hexcolor"`
}

type SaveComparisonRequest struct {
	EvaluateRequest
	Client ClientRequest `json:"client"`
}

type SendComparisonRequest struct {
	To string `json:"to,omitempty" validate:"omitempty,email"`
}

func (h *Handler) toCompareRequest(req EvaluateRequest) compare.Request {
	reg := h.regulated
	if req.Regulated != nil {
		reg = *req.Regulated
	}
	return compare.Request{
		Type:            req.Type,
		CustomerSegment: req.CustomerSegment,
		CurrentBill:     req.CurrentBill,
		Consumption:     req.Consumption,
		Regulated:       reg,
	}
}

// EvaluateComparison runs a comparison without storing it.
// @Summary Evaluate comparison
// @Tags Comparisons
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "Consumption and current bill"
// @Success 200 {object} compare.Recommendation
// @Failure 400 {object} APIError
// @Failure 422 {object} APIError
// @Security BearerAuth
// @Router /comparisons/evaluate [post]
func (h *Handler) EvaluateComparison(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}
	rec, err := h.compare.Evaluate(r.Context(), h.toCompareRequest(req))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// SaveComparison runs a comparison and stores it with the client's data.
// @Summary Save comparison
// @Tags Comparisons
// @Accept json
// @Produce json
// @Param request body SaveComparisonRequest true "Comparison and client"
// @Success 201 {object} compare.Saved
// @Failure 400 {object} APIError
// @Failure 422 {object} APIError
// @Security BearerAuth
// @Router /comparisons [post]
func (h *Handler) SaveComparison(w http.ResponseWriter, r *http.Request) {
	var req SaveComparisonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}
	client := compare.Client{
		Name:           req.Client.Name,
		Email:          req.Client.Email,
		PrimaryColor:   req.Client.PrimaryColor,
		SecondaryColor: req.Client.SecondaryColor,
	}
	saved, err := h.compare.Save(r.Context(), client, h.toCompareRequest(req.EvaluateRequest))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

// ListComparisons returns stored comparison summaries, newest first.
// @Summary List comparisons
// @Tags Comparisons
// @Produce json
// @Param limit query int false "Maximum rows (default 50, max 500)"
// @Success 200 {array} storage.ComparisonRecord
// @Security BearerAuth
// @Router /comparisons [get]
func (h *Handler) ListComparisons(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}
	list, err := h.compare.List(r.Context(), limit)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	if list == nil {
		list = []storage.ComparisonRecord{}
	}
	respondJSON(w, http.StatusOK, list)
}

// GetComparison returns a stored comparison.
// @Summary Get comparison
// @Tags Comparisons
// @Produce json
// @Param id path string true "Comparison ID"
// @Success 200 {object} compare.Saved
// @Failure 404 {object} APIError
// @Security BearerAuth
// @Router /comparisons/{id} [get]
func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	saved, err := h.compare.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// ComparisonPDF renders a stored comparison as a PDF proposal.
// @Summary Comparison PDF
// @Tags Comparisons
// @Produce application/pdf
// @Param id path string true "Comparison ID"
// @Success 200 {file} binary
// @Failure 404 {object} APIError
// @Security BearerAuth
// @Router /comparisons/{id}/pdf [get]
func (h *Handler) ComparisonPDF(w http.ResponseWriter, r *http.Request) {
	h.renderComparison(w, r, "application/pdf", "pdf", export.BuildComparisonPDF)
}

// ComparisonXLSX renders a stored comparison as a spreadsheet.
// @Summary Comparison spreadsheet
// @Tags Comparisons
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Comparison ID"
// @Success 200 {file} binary
// @Failure 404 {object} APIError
// @Security BearerAuth
// @Router /comparisons/{id}/xlsx [get]
func (h *Handler) ComparisonXLSX(w http.ResponseWriter, r *http.Request) {
	h.renderComparison(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", export.BuildComparisonXLSX)
}

func (h *Handler) renderComparison(w http.ResponseWriter, r *http.Request, contentType, ext string, build func(*compare.Saved) ([]byte, error)) {
	saved, err := h.compare.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	doc, err := build(saved)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="comparison-%s.%s"`, saved.ID, ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// SendComparison emails the comparison PDF to the client.
// @Summary Email comparison
// @Tags Comparisons
// @Accept json
// @Param id path string true "Comparison ID"
// @Param request body SendComparisonRequest false "Recipient override"
// @Success 202
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Failure 503 {object} APIError
// @Security BearerAuth
// @Router /comparisons/{id}/send [post]
func (h *Handler) SendComparison(w http.ResponseWriter, r *http.Request) {
	var req SendComparisonRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}
	saved, err := h.compare.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	if err := h.mailer.SendComparison(r.Context(), saved, req.To); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
