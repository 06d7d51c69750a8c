package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
)

type MarginHandler struct {
	marginService *service.MarginService
	logger        *zap.Logger
}

func NewMarginHandler(marginService *service.MarginService, logger *zap.Logger) *MarginHandler {
	return &MarginHandler{marginService: marginService, logger: logger}
}

// Create godoc
// @Summary Create a margin override
// @Description Set a wholesale margin for an agency, either for one service type or generally. Service-specific overrides take precedence over general ones.
// @Tags Margins
// @Accept json
// @Produce json
// @Param request body domain.CreateMarginOverrideRequest true "Override"
// @Success 201 {object} domain.APIResponse{data=domain.MarginOverrideDTO}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /margin-overrides [post]
func (h *MarginHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMarginOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.marginService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create margin override", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, domain.APIResponse{Data: dto, Success: true})
}

// Get godoc
// @Summary Get a margin override
// @Tags Margins
// @Produce json
// @Param id path string true "Override ID"
// @Success 200 {object} domain.APIResponse{data=domain.MarginOverrideDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /margin-overrides/{id} [get]
func (h *MarginHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid override ID")
		return
	}

	dto, err := h.marginService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Data: dto, Success: true})
}

// Delete godoc
// @Summary Delete a margin override
// @Tags Margins
// @Produce json
// @Param id path string true "Override ID"
// @Success 200 {object} domain.APIResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /margin-overrides/{id} [delete]
func (h *MarginHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid override ID")
		return
	}

	if err := h.marginService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Success: true, Message: "Override deleted"})
}

// List godoc
// @Summary List margin overrides
// @Tags Margins
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param agencyId query string false "Filter by agency"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.MarginOverrideDTO}
// @Security BearerAuth
// @Router /margin-overrides [get]
func (h *MarginHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var agencyID *uuid.UUID
	if a := r.URL.Query().Get("agencyId"); a != "" {
		id, err := uuid.Parse(a)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid agency ID")
			return
		}
		agencyID = &id
	}

	result, err := h.marginService.List(r.Context(), page, pageSize, agencyID)
	if err != nil {
		h.logger.Error("failed to list margin overrides", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Resolve godoc
// @Summary Resolve the effective margin
// @Description Report the margin an agency would be charged for a service type on a date, and whether it comes from a service-specific override, a general override or the platform default.
// @Tags Margins
// @Produce json
// @Param agencyId query string true "Agency ID"
// @Param serviceType query string true "Service type"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.APIResponse{data=service.ResolvedMarginDTO}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /margin-overrides/resolve [get]
func (h *MarginHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	agencyID, err := uuid.Parse(r.URL.Query().Get("agencyId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid agency ID")
		return
	}

	serviceType := domain.ServiceType(r.URL.Query().Get("serviceType"))

	date := time.Now().UTC()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	dto, err := h.marginService.Resolve(r.Context(), agencyID, serviceType, date)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Data: dto, Success: true})
}
