package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/mapper"
	"github.com/summittrails/pricing-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RuleService manages custom pricing rules
type RuleService struct {
	ruleRepo *repository.PricingRuleRepository
	logger   *zap.Logger
}

func NewRuleService(ruleRepo *repository.PricingRuleRepository, logger *zap.Logger) *RuleService {
	return &RuleService{ruleRepo: ruleRepo, logger: logger}
}

// Create adds a custom pricing rule. Bounds are validated here so that a
// rule with minPrice above maxPrice is rejected at write time instead of
// being skipped on every evaluation.
func (s *RuleService) Create(ctx context.Context, req *domain.CreatePricingRuleRequest) (*domain.PricingRuleDTO, error) {
	if !req.RuleType.IsValid() {
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidInput, req.RuleType)
	}
	if !req.AdjustmentType.IsValid() {
		return nil, fmt.Errorf("%w: unknown adjustment type %q", ErrInvalidInput, req.AdjustmentType)
	}
	if req.ServiceType != nil && !req.ServiceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, *req.ServiceType)
	}
	if err := checkBounds(req.MinPrice, req.MaxPrice); err != nil {
		return nil, err
	}
	if req.ValidFrom != nil && req.ValidTo != nil && req.ValidTo.Before(*req.ValidFrom) {
		return nil, fmt.Errorf("%w: validTo before validFrom", ErrInvalidInput)
	}

	rule := &domain.PricingRule{
		Name:            req.Name,
		RuleType:        req.RuleType,
		ServiceType:     req.ServiceType,
		AdjustmentType:  req.AdjustmentType,
		AdjustmentValue: req.AdjustmentValue,
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		ValidFrom:       req.ValidFrom,
		ValidTo:         req.ValidTo,
		Priority:        req.Priority,
		IsActive:        true,
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create pricing rule: %w", err)
	}

	s.logger.Info("pricing rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("rule_type", string(rule.RuleType)),
		zap.Int("priority", rule.Priority),
	)

	dto := mapper.ToPricingRuleDTO(rule)
	return &dto, nil
}

// GetByID returns one pricing rule
func (s *RuleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PricingRuleDTO, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get pricing rule: %w", err)
	}
	dto := mapper.ToPricingRuleDTO(rule)
	return &dto, nil
}

// Update applies partial changes to a pricing rule
func (s *RuleService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdatePricingRuleRequest) (*domain.PricingRuleDTO, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get pricing rule: %w", err)
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.AdjustmentType != nil {
		if !req.AdjustmentType.IsValid() {
			return nil, fmt.Errorf("%w: unknown adjustment type %q", ErrInvalidInput, *req.AdjustmentType)
		}
		rule.AdjustmentType = *req.AdjustmentType
	}
	if req.AdjustmentValue != nil {
		rule.AdjustmentValue = *req.AdjustmentValue
	}
	if req.MinPrice != nil {
		rule.MinPrice = req.MinPrice
	}
	if req.MaxPrice != nil {
		rule.MaxPrice = req.MaxPrice
	}
	if err := checkBounds(rule.MinPrice, rule.MaxPrice); err != nil {
		return nil, err
	}
	if req.ValidFrom != nil {
		rule.ValidFrom = req.ValidFrom
	}
	if req.ValidTo != nil {
		rule.ValidTo = req.ValidTo
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update pricing rule: %w", err)
	}

	dto := mapper.ToPricingRuleDTO(rule)
	return &dto, nil
}

// Delete removes a pricing rule
func (s *RuleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ruleRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRuleNotFound
		}
		return fmt.Errorf("failed to get pricing rule: %w", err)
	}
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pricing rule: %w", err)
	}
	s.logger.Info("pricing rule deleted", zap.String("rule_id", id.String()))
	return nil
}

// List returns pricing rules with pagination
func (s *RuleService) List(ctx context.Context, page, pageSize int, ruleType *domain.RuleType, serviceType *domain.ServiceType) (*domain.PaginatedResponse, error) {
	rules, total, err := s.ruleRepo.List(ctx, page, pageSize, ruleType, serviceType)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing rules: %w", err)
	}

	dtos := make([]domain.PricingRuleDTO, len(rules))
	for i := range rules {
		dtos[i] = mapper.ToPricingRuleDTO(&rules[i])
	}

	return paginate(dtos, total, page, pageSize), nil
}

func checkBounds(min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return fmt.Errorf("%w: minPrice %.2f exceeds maxPrice %.2f", ErrInvalidBounds, *min, *max)
	}
	return nil
}
