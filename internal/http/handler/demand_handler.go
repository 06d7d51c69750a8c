package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
)

type DemandHandler struct {
	demandService *service.DemandService
	logger        *zap.Logger
}

func NewDemandHandler(demandService *service.DemandService, logger *zap.Logger) *DemandHandler {
	return &DemandHandler{demandService: demandService, logger: logger}
}

// upsertDemandRequest pins a demand score for one date
type upsertDemandRequest struct {
	Date        string              `json:"date" validate:"required,datetime=2006-01-02"`
	ServiceType *domain.ServiceType `json:"serviceType,omitempty"`
	DemandScore float64             `json:"demandScore" validate:"gte=0,lte=100"`
}

// List godoc
// @Summary List demand metrics
// @Tags Demand
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Param serviceType query string false "Filter by service type"
// @Success 200 {object} domain.APIResponse{data=[]domain.DemandMetricDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /demand [get]
func (h *DemandHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
		return
	}

	var serviceType *domain.ServiceType
	if st := r.URL.Query().Get("serviceType"); st != "" {
		t := domain.ServiceType(st)
		if !t.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Unknown service type")
			return
		}
		serviceType = &t
	}

	dtos, err := h.demandService.ListRange(r.Context(), from, to, serviceType)
	if err != nil {
		h.logger.Error("failed to list demand metrics", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Data: dtos, Success: true})
}

// Upsert godoc
// @Summary Set a demand score
// @Description Pin the demand score for a date, optionally scoped to one service type. Used ahead of known high-demand periods.
// @Tags Demand
// @Accept json
// @Produce json
// @Param request body upsertDemandRequest true "Metric"
// @Success 200 {object} domain.APIResponse{data=domain.DemandMetricDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /demand [put]
func (h *DemandHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertDemandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	dto, err := h.demandService.Upsert(r.Context(), date, req.ServiceType, req.DemandScore)
	if err != nil {
		h.logger.Error("failed to upsert demand metric", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Data: dto, Success: true})
}
