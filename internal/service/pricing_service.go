package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/pricing"
	"github.com/summittrails/pricing-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DemandSource reads demand scores from the analytics warehouse. It is
// optional; a nil source or any read failure degrades to the locally
// aggregated metrics and finally to the neutral score.
type DemandSource interface {
	GetDemandScore(ctx context.Context, serviceType *domain.ServiceType, date time.Time) (float64, error)
}

// PricingService evaluates prices over dates. It owns the rule engine and
// the demand score lookup chain.
type PricingService struct {
	ruleRepo   *repository.PricingRuleRepository
	demandRepo *repository.DemandMetricRepository
	demandSrc  DemandSource
	engine     *pricing.Engine
	cfg        *config.PricingConfig
	logger     *zap.Logger
}

func NewPricingService(
	ruleRepo *repository.PricingRuleRepository,
	demandRepo *repository.DemandMetricRepository,
	cfg *config.PricingConfig,
	logger *zap.Logger,
) *PricingService {
	return &PricingService{
		ruleRepo:   ruleRepo,
		demandRepo: demandRepo,
		engine:     pricing.NewEngine(logger),
		cfg:        cfg,
		logger:     logger,
	}
}

// SetDemandSource attaches the warehouse-backed demand source. Called after
// construction because the warehouse is optional.
func (s *PricingService) SetDemandSource(src DemandSource) {
	s.demandSrc = src
}

// DemandScore resolves the demand score for a service type and date.
// Lookup order: warehouse, then local metrics. A nil result means no score
// is known; the engine then assumes the neutral band. This method never
// returns an error: demand unavailability must not fail pricing.
func (s *PricingService) DemandScore(ctx context.Context, serviceType domain.ServiceType, date time.Time) *float64 {
	st := serviceType
	if s.demandSrc != nil {
		score, err := s.demandSrc.GetDemandScore(ctx, &st, date)
		if err == nil {
			return &score
		}
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("demand warehouse read failed, falling back to local metrics",
				zap.String("service_type", string(serviceType)),
				zap.Error(err),
			)
		}
	}

	score, err := s.demandRepo.GetScore(ctx, &st, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("local demand metric read failed, assuming neutral demand",
				zap.String("service_type", string(serviceType)),
				zap.Error(err),
			)
		}
		return nil
	}
	return &score
}

// EvaluateDate runs the rule engine for one service type, base price and
// date. Custom rules and the demand score are fetched concurrently; either
// source failing degrades (no custom rules / neutral demand) rather than
// failing the evaluation.
func (s *PricingService) EvaluateDate(ctx context.Context, serviceType domain.ServiceType, basePrice float64, date time.Time, asOf time.Time, pctx domain.PricingContext) (pricing.PricedResult, *float64) {
	var (
		wg     sync.WaitGroup
		rules  []domain.PricingRule
		demand *float64
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		fetched, err := s.ruleRepo.ListActive(ctx, serviceType, date)
		if err != nil {
			s.logger.Warn("pricing rule lookup failed, evaluating with built-in rules only",
				zap.String("service_type", string(serviceType)),
				zap.String("date", date.Format("2006-01-02")),
				zap.Error(err),
			)
			return
		}
		rules = fetched
	}()
	go func() {
		defer wg.Done()
		demand = s.DemandScore(ctx, serviceType, date)
	}()
	wg.Wait()

	evalCtx := pricing.Context{
		PaxCount:        pctx.PaxCount,
		LoyaltyTier:     pctx.LoyaltyTier,
		BookingLeadDays: leadDays(asOf, date),
		IsWeekend:       isWeekend(date),
		DemandScore:     demand,
	}

	return s.engine.Evaluate(serviceType, basePrice, date, evalCtx, rules), demand
}

// SimulatePrice projects the rule-adjusted price of a service over a date
// range. Each date is independent, so rows are computed concurrently with a
// bounded fan-out. Two identical requests (same AsOf) produce identical
// results.
func (s *PricingService) SimulatePrice(ctx context.Context, req *domain.SimulatePriceRequest) ([]domain.SimulatedPriceDTO, error) {
	if !req.ServiceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, req.ServiceType)
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", ErrInvalidInput)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", ErrInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days > s.cfg.SimulateMaxDays {
		return nil, fmt.Errorf("%w: date range exceeds %d days", ErrInvalidInput, s.cfg.SimulateMaxDays)
	}

	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
	}

	results := make([]domain.SimulatedPriceDTO, days)
	sem := make(chan struct{}, s.concurrency())
	var wg sync.WaitGroup

	for i := 0; i < days; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			date := start.AddDate(0, 0, i)
			result, demand := s.EvaluateDate(ctx, req.ServiceType, req.BasePrice, date, asOf, req.Context)

			row := domain.SimulatedPriceDTO{
				Date:         date.Format("2006-01-02"),
				BasePrice:    req.BasePrice,
				FinalPrice:   result.FinalPrice,
				AppliedRules: toAppliedRuleDTOs(result.AppliedRules),
				DemandScore:  demand,
			}
			results[i] = row
		}(i)
	}
	wg.Wait()

	s.recordUsage(req.ServiceType, "search")

	return results, nil
}

func (s *PricingService) concurrency() int {
	if s.cfg.SimulateConcurrency > 0 {
		return s.cfg.SimulateConcurrency
	}
	return 1
}

// recordUsage appends a usage counter in the background. Counters feed the
// demand aggregation job; a write failure is logged and forgotten.
func (s *PricingService) recordUsage(serviceType domain.ServiceType, kind string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		st := serviceType
		counter := &domain.UsageCounter{
			Date:        time.Now().UTC(),
			ServiceType: &st,
			Kind:        kind,
			Count:       1,
		}
		if err := s.demandRepo.RecordUsage(ctx, counter); err != nil {
			s.logger.Debug("failed to record usage counter",
				zap.String("service_type", string(serviceType)),
				zap.String("kind", kind),
				zap.Error(err),
			)
		}
	}()
}

func toAppliedRuleDTOs(applied []pricing.AppliedRule) []domain.AppliedRuleDTO {
	dtos := make([]domain.AppliedRuleDTO, len(applied))
	for i, a := range applied {
		dtos[i] = domain.AppliedRuleDTO{
			RuleName:        a.RuleName,
			RuleType:        a.RuleType,
			AdjustmentType:  a.AdjustmentType,
			AdjustmentValue: a.AdjustmentValue,
			PriceAfterRule:  a.PriceAfterRule,
		}
	}
	return dtos
}

func leadDays(asOf, date time.Time) int {
	days := int(date.Sub(asOf).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
