package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/repository"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
)

func ruleServiceForTest(t *testing.T) *service.RuleService {
	t.Helper()
	db := setupTestDB(t)
	return service.NewRuleService(repository.NewPricingRuleRepository(db), zap.NewNop())
}

func floatPtr(v float64) *float64 { return &v }

func TestRuleService_CreateRejectsInvertedBounds(t *testing.T) {
	svc := ruleServiceForTest(t)

	_, err := svc.Create(context.Background(), &domain.CreatePricingRuleRequest{
		Name:            "Broken Bounds",
		RuleType:        domain.RuleTypePromotional,
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: -10,
		MinPrice:        floatPtr(500),
		MaxPrice:        floatPtr(100),
	})
	assert.ErrorIs(t, err, service.ErrInvalidBounds)
}

func TestRuleService_CreateRejectsUnknownEnums(t *testing.T) {
	svc := ruleServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreatePricingRuleRequest{
		Name:            "Bad Rule Type",
		RuleType:        "lottery",
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: -10,
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Create(ctx, &domain.CreatePricingRuleRequest{
		Name:            "Bad Adjustment",
		RuleType:        domain.RuleTypePromotional,
		AdjustmentType:  "multiplier",
		AdjustmentValue: 2,
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestRuleService_UpdateRejectsBoundsInversionAfterMerge(t *testing.T) {
	svc := ruleServiceForTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.CreatePricingRuleRequest{
		Name:            "Bounded Promo",
		RuleType:        domain.RuleTypePromotional,
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: -10,
		MinPrice:        floatPtr(50),
		MaxPrice:        floatPtr(200),
	})
	require.NoError(t, err)

	// Raising only minPrice above the existing maxPrice must fail.
	_, err = svc.Update(ctx, created.ID, &domain.UpdatePricingRuleRequest{
		MinPrice: floatPtr(300),
	})
	assert.ErrorIs(t, err, service.ErrInvalidBounds)

	// The stored rule is unchanged.
	found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, *found.MinPrice)
}

func TestRuleService_LifecycleRoundTrip(t *testing.T) {
	svc := ruleServiceForTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.CreatePricingRuleRequest{
		Name:            "Autumn Season",
		RuleType:        domain.RuleTypeSeasonal,
		ServiceType:     ptrServiceType(domain.ServiceTypeHotel),
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: 10,
		Priority:        100,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	updated, err := svc.Update(ctx, created.ID, &domain.UpdatePricingRuleRequest{
		AdjustmentValue: floatPtr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.AdjustmentValue)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrRuleNotFound)
}

func TestRuleService_GetUnknownID(t *testing.T) {
	svc := ruleServiceForTest(t)
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrRuleNotFound)
}
