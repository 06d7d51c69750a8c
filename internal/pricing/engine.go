// Package pricing implements the price resolution core: rule evaluation,
// margin resolution, quote quantity rules and channel sanitization. All
// functions here are pure over their inputs; persistence and transport live
// in the repository and http layers.
package pricing

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
	"go.uber.org/zap"
)

// NeutralDemandScore is assumed when the demand source is unavailable
const NeutralDemandScore = 50.0

// Fixed identities for built-in rules so that priority ties resolve the
// same way on every evaluation.
var (
	builtinDemandID    = uuid.MustParse("b0000000-0000-0000-0000-000000000001")
	builtinEarlyBirdID = uuid.MustParse("b0000000-0000-0000-0000-000000000002")
	builtinGroupID     = uuid.MustParse("b0000000-0000-0000-0000-000000000003")
	builtinLoyaltyID   = uuid.MustParse("b0000000-0000-0000-0000-000000000004")
)

// Context carries the booking facts that drive the built-in automatic rules
type Context struct {
	PaxCount        int
	LoyaltyTier     *domain.LoyaltyTier
	BookingLeadDays int
	IsWeekend       bool
	// DemandScore is nil when the demand source is unavailable; evaluation
	// then assumes NeutralDemandScore and never fails.
	DemandScore *float64
}

// AppliedRule is one entry of the evaluation trace
type AppliedRule struct {
	RuleName        string
	RuleType        domain.RuleType
	AdjustmentType  domain.AdjustmentType
	AdjustmentValue float64
	PriceAfterRule  float64
}

// PricedResult is the outcome of evaluating a rule chain against a base price
type PricedResult struct {
	FinalPrice   float64
	AppliedRules []AppliedRule
}

// Engine evaluates stacked pricing rules. It holds no state besides a logger
// for reporting misconfigured rules that get skipped.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a rule evaluation engine
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Evaluate applies the built-in automatic rules plus the given custom rules
// to basePrice for one date. All matching rules stack in priority order
// (descending, ties broken by rule id); each rule's own min/max bounds clamp
// the running price immediately after it applies. A rule with inverted
// bounds or an unknown adjustment type is skipped, never fatal.
func (e *Engine) Evaluate(serviceType domain.ServiceType, basePrice float64, date time.Time, ctx Context, custom []domain.PricingRule) PricedResult {
	candidates := BuiltinRules(ctx)
	for _, rule := range custom {
		if !rule.IsActive || !rule.AppliesTo(serviceType) || !rule.ValidOn(date) {
			continue
		}
		// weekend rules only fire on weekend dates
		if rule.RuleType == domain.RuleTypeWeekend && !ctx.IsWeekend {
			continue
		}
		candidates = append(candidates, rule)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	current := basePrice
	trace := make([]AppliedRule, 0, len(candidates))
	var lastMin, lastMax *float64

	for i := range candidates {
		rule := &candidates[i]

		if rule.MinPrice != nil && rule.MaxPrice != nil && *rule.MinPrice > *rule.MaxPrice {
			e.logger.Warn("skipping pricing rule with inverted bounds",
				zap.String("rule_id", rule.ID.String()),
				zap.String("rule_name", rule.Name),
				zap.Float64("min_price", *rule.MinPrice),
				zap.Float64("max_price", *rule.MaxPrice),
			)
			continue
		}

		switch rule.AdjustmentType {
		case domain.AdjustmentPercentage:
			current = current * (1 + rule.AdjustmentValue/100)
		case domain.AdjustmentFixedAmount:
			current = current + rule.AdjustmentValue
		default:
			e.logger.Warn("skipping pricing rule with unknown adjustment type",
				zap.String("rule_id", rule.ID.String()),
				zap.String("rule_name", rule.Name),
				zap.String("adjustment_type", string(rule.AdjustmentType)),
			)
			continue
		}

		if rule.MinPrice != nil || rule.MaxPrice != nil {
			if rule.MinPrice != nil && current < *rule.MinPrice {
				current = *rule.MinPrice
			}
			if rule.MaxPrice != nil && current > *rule.MaxPrice {
				current = *rule.MaxPrice
			}
			lastMin, lastMax = rule.MinPrice, rule.MaxPrice
		}

		trace = append(trace, AppliedRule{
			RuleName:        rule.Name,
			RuleType:        rule.RuleType,
			AdjustmentType:  rule.AdjustmentType,
			AdjustmentValue: rule.AdjustmentValue,
			PriceAfterRule:  Round2(current),
		})
	}

	// The bounds of the last bounded rule in the chain hold for the final
	// price; below that, zero is the absolute floor.
	if lastMax != nil && current > *lastMax {
		current = *lastMax
	}
	floor := 0.0
	if lastMin != nil && *lastMin > floor {
		floor = *lastMin
	}
	if current < floor {
		current = floor
	}

	return PricedResult{
		FinalPrice:   Round2(current),
		AppliedRules: trace,
	}
}

// BuiltinRules materializes the automatic rules that match the given context
// as PricingRule values. They carry fixed ids and priorities so evaluation
// order is reproducible; none declares a validity window or price bounds.
func BuiltinRules(ctx Context) []domain.PricingRule {
	rules := make([]domain.PricingRule, 0, 4)

	if adj := demandAdjustment(ctx.DemandScore); adj != 0 {
		name := "High Demand"
		if adj < 0 {
			name = "Low Demand"
		}
		rules = append(rules, builtinRule(builtinDemandID, name, domain.RuleTypeDemand, adj, 40))
	}

	if adj := earlyBirdAdjustment(ctx.BookingLeadDays); adj != 0 {
		rules = append(rules, builtinRule(builtinEarlyBirdID, "Early Bird", domain.RuleTypeEarlyBird, adj, 30))
	}

	if adj := groupAdjustment(ctx.PaxCount); adj != 0 {
		rules = append(rules, builtinRule(builtinGroupID, "Group Discount", domain.RuleTypeGroup, adj, 20))
	}

	if ctx.LoyaltyTier != nil {
		if adj := loyaltyAdjustment(*ctx.LoyaltyTier); adj != 0 {
			rules = append(rules, builtinRule(builtinLoyaltyID, "Loyalty Discount", domain.RuleTypeLoyalty, adj, 10))
		}
	}

	return rules
}

func builtinRule(id uuid.UUID, name string, ruleType domain.RuleType, adjustment float64, priority int) domain.PricingRule {
	return domain.PricingRule{
		BaseModel:       domain.BaseModel{ID: id},
		Name:            name,
		RuleType:        ruleType,
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: adjustment,
		Priority:        priority,
		IsActive:        true,
	}
}

// demandAdjustment maps a demand score onto surge/discount percentages.
// Scores between 40 and 60 are the neutral band: a missing source degrades
// to NeutralDemandScore and must leave the price unchanged.
func demandAdjustment(score *float64) float64 {
	s := NeutralDemandScore
	if score != nil {
		s = *score
	}
	switch {
	case s >= 80:
		return 15
	case s >= 60:
		return 10
	case s >= 40:
		return 0
	case s >= 20:
		return -5
	default:
		return -10
	}
}

func earlyBirdAdjustment(leadDays int) float64 {
	switch {
	case leadDays >= 90:
		return -15
	case leadDays >= 60:
		return -10
	case leadDays >= 30:
		return -5
	default:
		return 0
	}
}

func groupAdjustment(paxCount int) float64 {
	switch {
	case paxCount >= 20:
		return -15
	case paxCount >= 10:
		return -10
	case paxCount >= 6:
		return -5
	default:
		return 0
	}
}

func loyaltyAdjustment(tier domain.LoyaltyTier) float64 {
	switch tier {
	case domain.LoyaltyTierBronze:
		return -2
	case domain.LoyaltyTierSilver:
		return -5
	case domain.LoyaltyTierGold:
		return -8
	case domain.LoyaltyTierPlatinum:
		return -12
	default:
		return 0
	}
}
