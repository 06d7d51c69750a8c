package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/auth"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/pricing"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
)

// PricingHandler serves price simulation and quote calculation. Responses
// are sanitized for the caller's channel before they leave the handler.
type PricingHandler struct {
	pricingService *service.PricingService
	quoteService   *service.QuoteService
	logger         *zap.Logger
}

func NewPricingHandler(pricingService *service.PricingService, quoteService *service.QuoteService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
		quoteService:   quoteService,
		logger:         logger,
	}
}

// SimulatePrice godoc
// @Summary Simulate prices over a date range
// @Description Project the rule-adjusted price of a service for every date in a range. Demand, early-bird, group and loyalty rules apply automatically; custom rules stack by priority.
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body domain.SimulatePriceRequest true "Simulation request"
// @Success 200 {object} domain.APIResponse{data=[]domain.SimulatedPriceDTO}
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /pricing/simulate [post]
func (h *PricingHandler) SimulatePrice(w http.ResponseWriter, r *http.Request) {
	var req domain.SimulatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	results, err := h.pricingService.SimulatePrice(r.Context(), &req)
	if err != nil {
		h.logger.Error("price simulation failed",
			zap.String("service_type", string(req.ServiceType)),
			zap.Error(err),
		)
		respondServiceError(w, err)
		return
	}

	h.respondSanitized(w, r, http.StatusOK, domain.APIResponse{Data: results, Success: true})
}

// CalculateQuote godoc
// @Summary Calculate a trip quote
// @Description Price a set of services for the caller's channel and combine them into one quote. Agency callers get wholesale rates under their margin terms; retail callers get catalog sell prices.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.CalculateQuoteRequest true "Quote request"
// @Success 200 {object} domain.APIResponse{data=domain.QuoteDTO}
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /quotes [post]
func (h *PricingHandler) CalculateQuote(w http.ResponseWriter, r *http.Request) {
	var req domain.CalculateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	channel := auth.ChannelFromContext(r.Context())
	var agencyID *uuid.UUID
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		agencyID = userCtx.AgencyID
	}

	quote, err := h.quoteService.CalculateQuote(r.Context(), channel, agencyID, &req)
	if err != nil {
		h.logger.Error("quote calculation failed",
			zap.String("channel", string(channel)),
			zap.Int("services", len(req.Services)),
			zap.Error(err),
		)
		respondServiceError(w, err)
		return
	}

	h.respondSanitized(w, r, http.StatusOK, domain.APIResponse{Data: quote, Success: true})
}

// respondSanitized applies the caller's channel policy to the response
// body. On sanitization failure the unsanitized body is never written; the
// caller gets a 500.
func (h *PricingHandler) respondSanitized(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	channel := auth.ChannelFromContext(r.Context())
	sanitized, err := pricing.SanitizeDocument(payload, channel)
	if err != nil {
		h.logger.Error("response sanitization failed",
			zap.String("channel", string(channel)),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	respondJSON(w, status, sanitized)
}
