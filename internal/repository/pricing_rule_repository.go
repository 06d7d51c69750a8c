package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
	"gorm.io/gorm"
)

type PricingRuleRepository struct {
	db *gorm.DB
}

func NewPricingRuleRepository(db *gorm.DB) *PricingRuleRepository {
	return &PricingRuleRepository{db: db}
}

func (r *PricingRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *PricingRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *PricingRuleRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *PricingRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.PricingRule{}, "id = ?", id).Error
}

// ListActive returns the custom rules applicable to a service type on a
// given date: active, targeting the type or all types, with a validity
// window covering the date. Missing window bounds are open-ended.
func (r *PricingRuleRepository) ListActive(ctx context.Context, serviceType domain.ServiceType, date time.Time) ([]domain.PricingRule, error) {
	var rules []domain.PricingRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("service_type IS NULL OR service_type = ?", serviceType).
		Where("valid_from IS NULL OR valid_from <= ?", date).
		Where("valid_to IS NULL OR valid_to >= ?", date).
		Order("priority DESC, id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *PricingRuleRepository) List(ctx context.Context, page, pageSize int, ruleType *domain.RuleType, serviceType *domain.ServiceType) ([]domain.PricingRule, int64, error) {
	var rules []domain.PricingRule
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.PricingRule{})

	if ruleType != nil {
		query = query.Where("rule_type = ?", *ruleType)
	}
	if serviceType != nil {
		query = query.Where("service_type = ?", *serviceType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("priority DESC, created_at DESC").Find(&rules).Error

	return rules, total, err
}
