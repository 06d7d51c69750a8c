package pricing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/pricing"
	"go.uber.org/zap"
)

func newEngine() *pricing.Engine {
	return pricing.NewEngine(zap.NewNop())
}

// quietCtx produces no built-in adjustments: neutral demand, no lead time,
// small group, no loyalty tier, weekday.
func quietCtx() pricing.Context {
	neutral := pricing.NeutralDemandScore
	return pricing.Context{
		PaxCount:        2,
		BookingLeadDays: 0,
		IsWeekend:       false,
		DemandScore:     &neutral,
	}
}

func floatPtr(v float64) *float64 { return &v }

func customRule(id byte, name string, priority int, adjType domain.AdjustmentType, value float64) domain.PricingRule {
	return domain.PricingRule{
		BaseModel: domain.BaseModel{
			ID: uuid.UUID{0xa0, 15: id},
		},
		Name:            name,
		RuleType:        domain.RuleTypePromotional,
		AdjustmentType:  adjType,
		AdjustmentValue: value,
		Priority:        priority,
		IsActive:        true,
	}
}

func TestEngine_StacksPercentageRules(t *testing.T) {
	engine := newEngine()
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC) // Wednesday

	rules := []domain.PricingRule{
		customRule(1, "Autumn Sale", 100, domain.AdjustmentPercentage, -15),
		customRule(2, "Partner Promo", 50, domain.AdjustmentPercentage, -10),
	}

	result := engine.Evaluate(domain.ServiceTypeHotel, 100, date, quietCtx(), rules)

	require.Len(t, result.AppliedRules, 2)
	assert.Equal(t, "Autumn Sale", result.AppliedRules[0].RuleName)
	assert.Equal(t, 85.0, result.AppliedRules[0].PriceAfterRule)
	assert.Equal(t, "Partner Promo", result.AppliedRules[1].RuleName)
	assert.Equal(t, 76.5, result.AppliedRules[1].PriceAfterRule)
	assert.Equal(t, 76.5, result.FinalPrice)
}

func TestEngine_PriorityOrdersDescendingWithIDTiebreak(t *testing.T) {
	engine := newEngine()
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	// Same priority: lower id must run first.
	rules := []domain.PricingRule{
		customRule(2, "Second", 10, domain.AdjustmentFixedAmount, 5),
		customRule(1, "First", 10, domain.AdjustmentFixedAmount, 10),
		customRule(3, "Top", 99, domain.AdjustmentFixedAmount, 1),
	}

	result := engine.Evaluate(domain.ServiceTypeHotel, 100, date, quietCtx(), rules)

	require.Len(t, result.AppliedRules, 3)
	assert.Equal(t, "Top", result.AppliedRules[0].RuleName)
	assert.Equal(t, "First", result.AppliedRules[1].RuleName)
	assert.Equal(t, "Second", result.AppliedRules[2].RuleName)
	assert.Equal(t, 116.0, result.FinalPrice)
}

func TestEngine_RuleBoundsClampAfterApplication(t *testing.T) {
	engine := newEngine()
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	surge := customRule(1, "Festival Surge", 60, domain.AdjustmentPercentage, 50)
	surge.MaxPrice = floatPtr(120)
	discount := customRule(2, "Deep Discount", 40, domain.AdjustmentPercentage, -90)
	discount.MinPrice = floatPtr(30)

	result := engine.Evaluate(domain.ServiceTypeHotel, 100, date, quietCtx(), []domain.PricingRule{surge, discount})

	require.Len(t, result.AppliedRules, 2)
	// 100 * 1.5 = 150, clamped to max 120
	assert.Equal(t, 120.0, result.AppliedRules[0].PriceAfterRule)
	// 120 * 0.1 = 12, clamped to min 30
	assert.Equal(t, 30.0, result.AppliedRules[1].PriceAfterRule)
	assert.Equal(t, 30.0, result.FinalPrice)
}

func TestEngine_SkipsInvertedBoundsRule(t *testing.T) {
	engine := newEngine()
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	broken := customRule(1, "Broken", 90, domain.AdjustmentPercentage, 25)
	broken.MinPrice = floatPtr(500)
	broken.MaxPrice = floatPtr(100)
	healthy := customRule(2, "Healthy", 10, domain.AdjustmentPercentage, -10)

	result := engine.Evaluate(domain.ServiceTypeHotel, 100, date, quietCtx(), []domain.PricingRule{broken, healthy})

	require.Len(t, result.AppliedRules, 1)
	assert.Equal(t, "Healthy", result.AppliedRules[0].RuleName)
	assert.Equal(t, 90.0, result.FinalPrice)
}

func TestEngine_SkipsInactiveExpiredAndMismatchedRules(t *testing.T) {
	engine := newEngine()
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	inactive := customRule(1, "Inactive", 50, domain.AdjustmentPercentage, -50)
	inactive.IsActive = false

	expired := customRule(2, "Expired", 50, domain.AdjustmentPercentage, -50)
	past := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	expired.ValidTo = &past

	otherType := customRule(3, "Flights Only", 50, domain.AdjustmentPercentage, -50)
	flight := domain.ServiceTypeFlight
	otherType.ServiceType = &flight

	result := engine.Evaluate(domain.ServiceTypeHotel, 100, date, quietCtx(),
		[]domain.PricingRule{inactive, expired, otherType})

	assert.Empty(t, result.AppliedRules)
	assert.Equal(t, 100.0, result.FinalPrice)
}

func TestEngine_WeekendRuleOnlyFiresOnWeekends(t *testing.T) {
	engine := newEngine()

	weekend := customRule(1, "Weekend Uplift", 50, domain.AdjustmentPercentage, 10)
	weekend.RuleType = domain.RuleTypeWeekend

	saturday := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	weekendCtx := quietCtx()
	weekendCtx.IsWeekend = true
	onWeekend := engine.Evaluate(domain.ServiceTypeHotel, 100, saturday, weekendCtx, []domain.PricingRule{weekend})
	assert.Equal(t, 110.0, onWeekend.FinalPrice)

	onWeekday := engine.Evaluate(domain.ServiceTypeHotel, 100, wednesday, quietCtx(), []domain.PricingRule{weekend})
	assert.Equal(t, 100.0, onWeekday.FinalPrice)
	assert.Empty(t, onWeekday.AppliedRules)
}

func TestEngine_FinalPriceNeverNegative(t *testing.T) {
	engine := newEngine()
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	rules := []domain.PricingRule{
		customRule(1, "Voucher", 10, domain.AdjustmentFixedAmount, -500),
	}

	result := engine.Evaluate(domain.ServiceTypeHotel, 100, date, quietCtx(), rules)
	assert.Equal(t, 0.0, result.FinalPrice)
}

func TestEngine_DemandBanding(t *testing.T) {
	engine := newEngine()
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		score    *float64
		expected float64
	}{
		{"surge at 85", floatPtr(85), 230},
		{"mild surge at 60", floatPtr(60), 220},
		{"neutral at 50", floatPtr(50), 200},
		{"neutral lower edge at 40", floatPtr(40), 200},
		{"soft discount at 25", floatPtr(25), 190},
		{"deep discount at 10", floatPtr(10), 180},
		{"missing source is neutral", nil, 200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := quietCtx()
			ctx.DemandScore = tc.score
			result := engine.Evaluate(domain.ServiceTypeFlight, 200, date, ctx, nil)
			assert.Equal(t, tc.expected, result.FinalPrice)
		})
	}
}

func TestEngine_SameInputsSameOutput(t *testing.T) {
	engine := newEngine()
	date := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	ctx := pricing.Context{
		PaxCount:        12,
		BookingLeadDays: 75,
		IsWeekend:       true,
		DemandScore:     floatPtr(90),
	}
	gold := domain.LoyaltyTierGold
	ctx.LoyaltyTier = &gold

	rules := []domain.PricingRule{
		customRule(1, "Peak Season", 80, domain.AdjustmentPercentage, 20),
		customRule(2, "Agency Promo", 5, domain.AdjustmentFixedAmount, -10),
	}

	first := engine.Evaluate(domain.ServiceTypeHotel, 150, date, ctx, rules)
	second := engine.Evaluate(domain.ServiceTypeHotel, 150, date, ctx, rules)

	assert.Equal(t, first.FinalPrice, second.FinalPrice)
	assert.Equal(t, first.AppliedRules, second.AppliedRules)
}

func TestBuiltinRules_Ladders(t *testing.T) {
	t.Run("early bird", func(t *testing.T) {
		for lead, want := range map[int]float64{95: -15, 75: -10, 45: -5} {
			ctx := quietCtx()
			ctx.BookingLeadDays = lead
			rules := pricing.BuiltinRules(ctx)
			require.Len(t, rules, 1)
			assert.Equal(t, domain.RuleTypeEarlyBird, rules[0].RuleType)
			assert.Equal(t, want, rules[0].AdjustmentValue)
		}
	})

	t.Run("group size", func(t *testing.T) {
		for pax, want := range map[int]float64{25: -15, 12: -10, 7: -5} {
			ctx := quietCtx()
			ctx.PaxCount = pax
			rules := pricing.BuiltinRules(ctx)
			require.Len(t, rules, 1)
			assert.Equal(t, domain.RuleTypeGroup, rules[0].RuleType)
			assert.Equal(t, want, rules[0].AdjustmentValue)
		}
	})

	t.Run("loyalty", func(t *testing.T) {
		tiers := map[domain.LoyaltyTier]float64{
			domain.LoyaltyTierBronze:   -2,
			domain.LoyaltyTierSilver:   -5,
			domain.LoyaltyTierGold:     -8,
			domain.LoyaltyTierPlatinum: -12,
		}
		for tier, want := range tiers {
			ctx := quietCtx()
			tier := tier
			ctx.LoyaltyTier = &tier
			rules := pricing.BuiltinRules(ctx)
			require.Len(t, rules, 1)
			assert.Equal(t, domain.RuleTypeLoyalty, rules[0].RuleType)
			assert.Equal(t, want, rules[0].AdjustmentValue)
		}
	})

	t.Run("quiet context produces nothing", func(t *testing.T) {
		assert.Empty(t, pricing.BuiltinRules(quietCtx()))
	})
}
