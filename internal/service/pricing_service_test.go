package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/repository"
	"github.com/summittrails/pricing-api/internal/service"
)

func TestPricingService_SimulatePrice_NeutralWithoutRulesOrDemand(t *testing.T) {
	db := setupTestDB(t)
	svc := newPricingService(db)

	asOf := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC) // same day, no lead time
	req := &domain.SimulatePriceRequest{
		ServiceType: domain.ServiceTypeHotel,
		BasePrice:   100,
		StartDate:   "2026-10-14",
		EndDate:     "2026-10-14",
		AsOf:        &asOf,
		Context:     domain.PricingContext{PaxCount: 2},
	}

	results, err := svc.SimulatePrice(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "2026-10-14", results[0].Date)
	assert.Equal(t, 100.0, results[0].FinalPrice)
	assert.Empty(t, results[0].AppliedRules)
	assert.Nil(t, results[0].DemandScore)
}

func TestPricingService_SimulatePrice_AppliesStoredRulesAndDemand(t *testing.T) {
	db := setupTestDB(t)
	ruleRepo := repository.NewPricingRuleRepository(db)
	demandRepo := repository.NewDemandMetricRepository(db)
	svc := newPricingService(db)
	ctx := context.Background()

	require.NoError(t, ruleRepo.Create(ctx, &domain.PricingRule{
		Name:            "Autumn Season",
		RuleType:        domain.RuleTypeSeasonal,
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: 10,
		Priority:        100,
		IsActive:        true,
	}))
	require.NoError(t, demandRepo.Upsert(ctx, &domain.DemandMetric{
		Date:        time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		ServiceType: ptrServiceType(domain.ServiceTypeHotel),
		DemandScore: 85,
	}))

	asOf := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	req := &domain.SimulatePriceRequest{
		ServiceType: domain.ServiceTypeHotel,
		BasePrice:   100,
		StartDate:   "2026-10-14",
		EndDate:     "2026-10-15",
		AsOf:        &asOf,
		Context:     domain.PricingContext{PaxCount: 2},
	}

	results, err := svc.SimulatePrice(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Oct 14: seasonal +10% then high-demand +15%: 100 -> 110 -> 126.50.
	day1 := results[0]
	require.NotNil(t, day1.DemandScore)
	assert.Equal(t, 85.0, *day1.DemandScore)
	require.Len(t, day1.AppliedRules, 2)
	assert.Equal(t, "Autumn Season", day1.AppliedRules[0].RuleName)
	assert.Equal(t, 126.5, day1.FinalPrice)

	// Oct 15 has no demand metric: seasonal only.
	day2 := results[1]
	assert.Nil(t, day2.DemandScore)
	require.Len(t, day2.AppliedRules, 1)
	assert.Equal(t, 110.0, day2.FinalPrice)
}

func TestPricingService_SimulatePrice_DeterministicWithFixedAsOf(t *testing.T) {
	db := setupTestDB(t)
	ruleRepo := repository.NewPricingRuleRepository(db)
	ctx := context.Background()

	require.NoError(t, ruleRepo.Create(ctx, &domain.PricingRule{
		Name:            "Festival Surge",
		RuleType:        domain.RuleTypePeakDay,
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: 25,
		Priority:        70,
		IsActive:        true,
	}))

	svc := newPricingService(db)
	asOf := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	gold := domain.LoyaltyTierGold
	req := &domain.SimulatePriceRequest{
		ServiceType: domain.ServiceTypeHotel,
		BasePrice:   150,
		StartDate:   "2026-10-10",
		EndDate:     "2026-10-20",
		AsOf:        &asOf,
		Context:     domain.PricingContext{PaxCount: 12, LoyaltyTier: &gold},
	}

	first, err := svc.SimulatePrice(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.SimulatePrice(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPricingService_SimulatePrice_InputValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newPricingService(db)
	ctx := context.Background()

	t.Run("unknown service type", func(t *testing.T) {
		_, err := svc.SimulatePrice(ctx, &domain.SimulatePriceRequest{
			ServiceType: "spaceship",
			BasePrice:   100,
			StartDate:   "2026-10-14",
			EndDate:     "2026-10-14",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := svc.SimulatePrice(ctx, &domain.SimulatePriceRequest{
			ServiceType: domain.ServiceTypeHotel,
			BasePrice:   100,
			StartDate:   "2026-10-14",
			EndDate:     "2026-10-01",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("range too wide", func(t *testing.T) {
		_, err := svc.SimulatePrice(ctx, &domain.SimulatePriceRequest{
			ServiceType: domain.ServiceTypeHotel,
			BasePrice:   100,
			StartDate:   "2026-01-01",
			EndDate:     "2026-12-31",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := svc.SimulatePrice(ctx, &domain.SimulatePriceRequest{
			ServiceType: domain.ServiceTypeHotel,
			BasePrice:   100,
			StartDate:   "14/10/2026",
			EndDate:     "2026-10-14",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}
