package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/pricing"
	"github.com/summittrails/pricing-api/internal/repository"
	"github.com/summittrails/pricing-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteService aggregates priced services into trip quotes. A single
// missing rate degrades to a zero line item; only invalid caller input
// fails the whole quote.
type QuoteService struct {
	rateRepo     *repository.RateRepository
	overrideRepo *repository.MarginOverrideRepository
	demandRepo   *repository.DemandMetricRepository
	pricingSvc   *PricingService
	archive      storage.Storage
	cfg          *config.PricingConfig
	logger       *zap.Logger
}

func NewQuoteService(
	rateRepo *repository.RateRepository,
	overrideRepo *repository.MarginOverrideRepository,
	demandRepo *repository.DemandMetricRepository,
	pricingSvc *PricingService,
	cfg *config.PricingConfig,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		rateRepo:     rateRepo,
		overrideRepo: overrideRepo,
		demandRepo:   demandRepo,
		pricingSvc:   pricingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// SetArchive attaches the quote document archive. Called after construction
// because archiving is optional.
func (s *QuoteService) SetArchive(archive storage.Storage) {
	s.archive = archive
}

// CalculateQuote prices the requested services for the given channel and
// combines them into one quote. Agency quotes apply the resolved wholesale
// margin to supplier cost; retail quotes use the catalog sell price, run
// through the rule engine when a line carries a date; internal quotes
// expose both cost and sell.
func (s *QuoteService) CalculateQuote(ctx context.Context, channel domain.Channel, agencyID *uuid.UUID, req *domain.CalculateQuoteRequest) (*domain.QuoteDTO, error) {
	if req.NumberOfPax <= 0 {
		return nil, fmt.Errorf("%w: numberOfPax must be positive", ErrInvalidInput)
	}
	if len(req.Services) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if !channel.IsValid() {
		return nil, fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, channel)
	}

	occupancy := req.OccupancyType
	if occupancy == "" {
		occupancy = domain.OccupancyDouble
	}

	overrides := s.marginOverrides(ctx, channel, agencyID)
	now := time.Now().UTC()

	lineItems := make([]domain.QuoteLineItemDTO, 0, len(req.Services))
	grandTotal := 0.0
	currency := ""

	for i := range req.Services {
		item := s.priceLineItem(ctx, channel, overrides, &req.Services[i], req.NumberOfPax, occupancy, now)
		if currency == "" && item.currency != "" {
			currency = item.currency
		}
		lineItems = append(lineItems, item.dto)
		grandTotal += item.dto.Subtotal
	}
	if currency == "" {
		currency = "USD"
	}

	quote := &domain.QuoteDTO{
		LineItems:      lineItems,
		NumberOfPax:    req.NumberOfPax,
		OccupancyType:  occupancy,
		Channel:        channel,
		GrandTotal:     pricing.Round2(grandTotal),
		PerPersonTotal: pricing.Round2(grandTotal / float64(req.NumberOfPax)),
		Currency:       currency,
		CreatedAt:      now.Format(time.RFC3339),
	}

	s.archiveQuote(quote)
	s.recordQuoteUsage(req.Services)

	return quote, nil
}

type pricedLine struct {
	dto      domain.QuoteLineItemDTO
	currency string
}

// priceLineItem resolves one requested service into a line item. Any
// failure to find or price the rate produces a zero line, never an error.
func (s *QuoteService) priceLineItem(ctx context.Context, channel domain.Channel, overrides []domain.MarginOverride, svc *domain.QuoteServiceRequest, numberOfPax int, occupancy domain.OccupancyType, now time.Time) pricedLine {
	rate, err := s.rateRepo.GetByTypeAndID(ctx, svc.ServiceType, svc.ServiceID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("rate catalog read failed, degrading line item",
				zap.String("service_type", string(svc.ServiceType)),
				zap.String("service_id", svc.ServiceID.String()),
				zap.Error(err),
			)
		}
		return zeroLine(svc)
	}
	if !rate.IsActive {
		return zeroLine(svc)
	}

	fields, err := rate.PriceFields(occupancy)
	if err != nil {
		s.logger.Warn("rate has no resolvable price fields, degrading line item",
			zap.String("service_type", string(svc.ServiceType)),
			zap.String("service_id", svc.ServiceID.String()),
			zap.Error(err),
		)
		return zeroLine(svc)
	}

	lineDate := now
	if svc.Date != nil {
		if parsed, perr := time.Parse("2006-01-02", *svc.Date); perr == nil {
			lineDate = parsed
		}
	}

	var unitRate float64
	switch channel {
	case domain.ChannelAgency:
		multiplier := pricing.MarginMultiplier(channel, overrides, svc.ServiceType, lineDate, s.cfg.DefaultMarginPercent)
		unitRate = pricing.Round2(fields.Cost * multiplier)
	case domain.ChannelRetail:
		unitRate = fields.Sell
		if svc.Date != nil {
			result, _ := s.pricingSvc.EvaluateDate(ctx, svc.ServiceType, fields.Sell, lineDate, now, domain.PricingContext{PaxCount: numberOfPax})
			unitRate = result.FinalPrice
		}
	default: // internal
		unitRate = fields.Sell
	}

	quantity := pricing.ResolveQuantity(svc.ServiceType, numberOfPax, occupancy, svc.Quantity, svc.Nights)

	dto := domain.QuoteLineItemDTO{
		ServiceType: svc.ServiceType,
		ServiceID:   svc.ServiceID,
		Name:        rate.Name,
		UnitRate:    unitRate,
		Quantity:    quantity,
		Unit:        fields.Unit,
		Subtotal:    pricing.Round2(unitRate * float64(quantity)),
	}

	if channel == domain.ChannelInternal {
		cost, sell := fields.Cost, fields.Sell
		dto.CostRate = &cost
		dto.SellRate = &sell
	}

	return pricedLine{dto: dto, currency: rate.Currency}
}

func zeroLine(svc *domain.QuoteServiceRequest) pricedLine {
	return pricedLine{dto: domain.QuoteLineItemDTO{
		ServiceType: svc.ServiceType,
		ServiceID:   svc.ServiceID,
		Name:        fmt.Sprintf("%s #%s (not found)", svc.ServiceType, svc.ServiceID),
		UnitRate:    0,
		Quantity:    0,
		Unit:        "per unit",
		Subtotal:    0,
	}}
}

// marginOverrides loads the agency's overrides. Only the agency channel
// needs them; a load failure degrades to the platform default margin.
func (s *QuoteService) marginOverrides(ctx context.Context, channel domain.Channel, agencyID *uuid.UUID) []domain.MarginOverride {
	if channel != domain.ChannelAgency || agencyID == nil {
		return nil
	}
	overrides, err := s.overrideRepo.ListByAgency(ctx, *agencyID, nil)
	if err != nil {
		s.logger.Warn("margin override lookup failed, using platform default margin",
			zap.String("agency_id", agencyID.String()),
			zap.Error(err),
		)
		return nil
	}
	return overrides
}

// archiveQuote exports the channel-sanitized quote document in the
// background. Archive failures are logged and never affect the caller.
func (s *QuoteService) archiveQuote(quote *domain.QuoteDTO) {
	if s.archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sanitized, err := pricing.SanitizeDocument(quote, quote.Channel)
		if err != nil {
			s.logger.Warn("failed to sanitize quote for archive", zap.Error(err))
			return
		}
		payload, err := json.Marshal(sanitized)
		if err != nil {
			s.logger.Warn("failed to encode quote for archive", zap.Error(err))
			return
		}

		filename := fmt.Sprintf("quote-%s-%s.json", quote.Channel, time.Now().UTC().Format("20060102T150405"))
		if _, _, err := s.archive.Upload(ctx, filename, "application/json", bytes.NewReader(payload)); err != nil {
			s.logger.Warn("failed to archive quote document",
				zap.String("filename", filename),
				zap.Error(err),
			)
		}
	}()
}

// recordQuoteUsage increments quote counters per distinct service type
func (s *QuoteService) recordQuoteUsage(services []domain.QuoteServiceRequest) {
	seen := make(map[domain.ServiceType]bool, len(services))
	for i := range services {
		st := services[i].ServiceType
		if seen[st] {
			continue
		}
		seen[st] = true
		s.pricingSvc.recordUsage(st, "quote")
	}
}
