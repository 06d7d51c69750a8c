package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
)

type RuleHandler struct {
	ruleService *service.RuleService
	logger      *zap.Logger
}

func NewRuleHandler(ruleService *service.RuleService, logger *zap.Logger) *RuleHandler {
	return &RuleHandler{ruleService: ruleService, logger: logger}
}

// Create godoc
// @Summary Create a pricing rule
// @Description Add a custom rule. Rules stack by priority; equal priorities break ties by rule id. A rule whose minPrice exceeds its maxPrice is rejected.
// @Tags PricingRules
// @Accept json
// @Produce json
// @Param request body domain.CreatePricingRuleRequest true "Rule"
// @Success 201 {object} domain.APIResponse{data=domain.PricingRuleDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /pricing-rules [post]
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePricingRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.ruleService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create pricing rule", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, domain.APIResponse{Data: dto, Success: true})
}

// Get godoc
// @Summary Get a pricing rule
// @Tags PricingRules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} domain.APIResponse{data=domain.PricingRuleDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /pricing-rules/{id} [get]
func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid rule ID")
		return
	}

	dto, err := h.ruleService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Data: dto, Success: true})
}

// Update godoc
// @Summary Update a pricing rule
// @Tags PricingRules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param request body domain.UpdatePricingRuleRequest true "Changes"
// @Success 200 {object} domain.APIResponse{data=domain.PricingRuleDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /pricing-rules/{id} [put]
func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid rule ID")
		return
	}

	var req domain.UpdatePricingRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.ruleService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update pricing rule", zap.String("rule_id", id.String()), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Data: dto, Success: true})
}

// Delete godoc
// @Summary Delete a pricing rule
// @Tags PricingRules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} domain.APIResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /pricing-rules/{id} [delete]
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid rule ID")
		return
	}

	if err := h.ruleService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.APIResponse{Success: true, Message: "Rule deleted"})
}

// List godoc
// @Summary List pricing rules
// @Tags PricingRules
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param ruleType query string false "Filter by rule type"
// @Param serviceType query string false "Filter by service type"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.PricingRuleDTO}
// @Security BearerAuth
// @Router /pricing-rules [get]
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var ruleType *domain.RuleType
	if rt := r.URL.Query().Get("ruleType"); rt != "" {
		t := domain.RuleType(rt)
		if !t.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Unknown rule type")
			return
		}
		ruleType = &t
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

	result, err := h.ruleService.List(r.Context(), page, pageSize, ruleType, serviceType)
	if err != nil {
		h.logger.Error("failed to list pricing rules", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
