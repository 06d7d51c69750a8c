package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
)

type AgencyHandler struct {
	agencyService *service.AgencyService
	logger        *zap.Logger
}

func NewAgencyHandler(agencyService *service.AgencyService, logger *zap.Logger) *AgencyHandler {
	return &AgencyHandler{agencyService: agencyService, logger: logger}
}

// Create godoc
// @Summary Register an agency
// @Tags Agencies
// @Accept json
// @Produce json
// @Param request body domain.CreateAgencyRequest true "Agency"
// @Success 201 {object} domain.APIResponse{data=domain.AgencyDTO}
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /agencies [post]
func (h *AgencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAgencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.agencyService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create agency", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, domain.APIResponse{Data: dto, Success: true})
}

// Get godoc
// @Summary Get an agency
// @Tags Agencies
// @Produce json
// @Param id path string true "Agency ID"
// @Success 200 {object} domain.APIResponse{data=domain.AgencyDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /agencies/{id} [get]
func (h *AgencyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid agency ID")
		return
	}

	dto, err := h.agencyService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Data: dto, Success: true})
}

// Update godoc
// @Summary Update an agency
// @Tags Agencies
// @Accept json
// @Produce json
// @Param id path string true "Agency ID"
// @Param request body domain.UpdateAgencyRequest true "Changes"
// @Success 200 {object} domain.APIResponse{data=domain.AgencyDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /agencies/{id} [put]
func (h *AgencyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid agency ID")
		return
	}

	var req domain.UpdateAgencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.agencyService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update agency", zap.String("agency_id", id.String()), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Data: dto, Success: true})
}

// Deactivate godoc
// @Summary Deactivate an agency
// @Tags Agencies
// @Produce json
// @Param id path string true "Agency ID"
// @Success 200 {object} domain.APIResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /agencies/{id} [delete]
func (h *AgencyHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid agency ID")
		return
	}

	if err := h.agencyService.Deactivate(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Success: true, Message: "Agency deactivated"})
}

// List godoc
// @Summary List agencies
// @Tags Agencies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param activeOnly query bool false "Only active agencies"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.AgencyDTO}
// @Security BearerAuth
// @Router /agencies [get]
func (h *AgencyHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("activeOnly"))

	result, err := h.agencyService.List(r.Context(), page, pageSize, activeOnly)
	if err != nil {
		h.logger.Error("failed to list agencies", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
