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

type RateHandler struct {
	rateService *service.RateService
	logger      *zap.Logger
}

func NewRateHandler(rateService *service.RateService, logger *zap.Logger) *RateHandler {
	return &RateHandler{rateService: rateService, logger: logger}
}

// Create godoc
// @Summary Create a service rate
// @Description Add a rate to the catalog. Only the price variant fields matching the service type are relevant.
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body domain.CreateServiceRateRequest true "Rate"
// @Success 201 {object} domain.APIResponse{data=domain.ServiceRateDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /rates [post]
func (h *RateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateServiceRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.rateService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create rate", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, domain.APIResponse{Data: dto, Success: true})
}

// Get godoc
// @Summary Get a service rate
// @Tags Rates
// @Produce json
// @Param id path string true "Rate ID"
// @Success 200 {object} domain.APIResponse{data=domain.ServiceRateDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /rates/{id} [get]
func (h *RateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid rate ID")
		return
	}

	dto, err := h.rateService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Data: dto, Success: true})
}

// Update godoc
// @Summary Update a service rate
// @Tags Rates
// @Accept json
// @Produce json
// @Param id path string true "Rate ID"
// @Param request body domain.UpdateServiceRateRequest true "Changes"
// @Success 200 {object} domain.APIResponse{data=domain.ServiceRateDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /rates/{id} [put]
func (h *RateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid rate ID")
		return
	}

	var req domain.UpdateServiceRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.rateService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update rate", zap.String("rate_id", id.String()), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Data: dto, Success: true})
}

// Deactivate godoc
// @Summary Deactivate a service rate
// @Description Stop the rate from pricing new quotes. Existing references stay intact.
// @Tags Rates
// @Produce json
// @Param id path string true "Rate ID"
// @Success 200 {object} domain.APIResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /rates/{id} [delete]
func (h *RateHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid rate ID")
		return
	}

	if err := h.rateService.Deactivate(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Success: true, Message: "Rate deactivated"})
}

// List godoc
// @Summary List service rates
// @Tags Rates
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param serviceType query string false "Filter by service type"
// @Param activeOnly query bool false "Only active rates"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ServiceRateDTO}
// @Security BearerAuth
// @Router /rates [get]
func (h *RateHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var serviceType *domain.ServiceType
	if st := r.URL.Query().Get("serviceType"); st != "" {
		t := domain.ServiceType(st)
		if !t.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Unknown service type")
			return
		}
		serviceType = &t
	}
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("activeOnly"))

	result, err := h.rateService.List(r.Context(), page, pageSize, serviceType, activeOnly)
	if err != nil {
		h.logger.Error("failed to list rates", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}
