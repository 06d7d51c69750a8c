package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/repository"
)

func TestPricingRuleRepository_ListActive(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPricingRuleRepository(db)
	ctx := context.Background()

	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	past := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	rules := []*domain.PricingRule{
		{Name: "Autumn Season", RuleType: domain.RuleTypeSeasonal, AdjustmentType: domain.AdjustmentPercentage, AdjustmentValue: 10, Priority: 50, IsActive: true},
		{Name: "Hotel Promo", RuleType: domain.RuleTypePromotional, ServiceType: ptrServiceType(domain.ServiceTypeHotel), AdjustmentType: domain.AdjustmentPercentage, AdjustmentValue: -5, Priority: 80, IsActive: true},
		{Name: "Flight Promo", RuleType: domain.RuleTypePromotional, ServiceType: ptrServiceType(domain.ServiceTypeFlight), AdjustmentType: domain.AdjustmentPercentage, AdjustmentValue: -5, Priority: 80, IsActive: true},
		{Name: "Disabled", RuleType: domain.RuleTypeSeasonal, AdjustmentType: domain.AdjustmentPercentage, AdjustmentValue: 10, Priority: 90, IsActive: false},
		{Name: "Expired", RuleType: domain.RuleTypeSeasonal, AdjustmentType: domain.AdjustmentPercentage, AdjustmentValue: 10, Priority: 90, IsActive: true, ValidTo: &past},
		{Name: "Not Yet", RuleType: domain.RuleTypeSeasonal, AdjustmentType: domain.AdjustmentPercentage, AdjustmentValue: 10, Priority: 90, IsActive: true, ValidFrom: &future},
	}
	for _, r := range rules {
		require.NoError(t, repo.Create(ctx, r))
	}

	active, err := repo.ListActive(ctx, domain.ServiceTypeHotel, date)
	require.NoError(t, err)
	require.Len(t, active, 2)

	// Ordered by priority descending.
	assert.Equal(t, "Hotel Promo", active[0].Name)
	assert.Equal(t, "Autumn Season", active[1].Name)
}

func TestPricingRuleRepository_List_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPricingRuleRepository(db)
	ctx := context.Background()

	rules := []*domain.PricingRule{
		{Name: "Season", RuleType: domain.RuleTypeSeasonal, AdjustmentType: domain.AdjustmentPercentage, AdjustmentValue: 10, IsActive: true},
		{Name: "Promo", RuleType: domain.RuleTypePromotional, ServiceType: ptrServiceType(domain.ServiceTypeHotel), AdjustmentType: domain.AdjustmentFixedAmount, AdjustmentValue: -20, IsActive: true},
	}
	for _, r := range rules {
		require.NoError(t, repo.Create(ctx, r))
	}

	promo := domain.RuleTypePromotional
	listed, total, err := repo.List(ctx, 1, 20, &promo, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, "Promo", listed[0].Name)

	listed, total, err = repo.List(ctx, 1, 20, nil, ptrServiceType(domain.ServiceTypeHotel))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, "Promo", listed[0].Name)
}

func TestPricingRuleRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPricingRuleRepository(db)
	ctx := context.Background()

	rule := &domain.PricingRule{
		Name:            "Festival Surge",
		RuleType:        domain.RuleTypePeakDay,
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: 25,
		Priority:        70,
		IsActive:        true,
	}
	require.NoError(t, repo.Create(ctx, rule))

	rule.AdjustmentValue = 30
	require.NoError(t, repo.Update(ctx, rule))

	found, err := repo.GetByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, found.AdjustmentValue)

	require.NoError(t, repo.Delete(ctx, rule.ID))
	_, err = repo.GetByID(ctx, rule.ID)
	assert.Error(t, err)
}
