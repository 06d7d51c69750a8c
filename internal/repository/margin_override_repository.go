package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
	"gorm.io/gorm"
)

type MarginOverrideRepository struct {
	db *gorm.DB
}

func NewMarginOverrideRepository(db *gorm.DB) *MarginOverrideRepository {
	return &MarginOverrideRepository{db: db}
}

func (r *MarginOverrideRepository) Create(ctx context.Context, override *domain.MarginOverride) error {
	return r.db.WithContext(ctx).Create(override).Error
}

func (r *MarginOverrideRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MarginOverride, error) {
	var override domain.MarginOverride
	err := r.db.WithContext(ctx).Preload("Agency").Where("id = ?", id).First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *MarginOverrideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.MarginOverride{}, "id = ?", id).Error
}

// ListByAgency returns an agency's overrides, newest first. Precedence
// between specific and general overrides is decided by the margin
// resolver, not the query.
func (r *MarginOverrideRepository) ListByAgency(ctx context.Context, agencyID uuid.UUID, serviceType *domain.ServiceType) ([]domain.MarginOverride, error) {
	var overrides []domain.MarginOverride
	query := r.db.WithContext(ctx).Where("agency_id = ?", agencyID)
	if serviceType != nil {
		query = query.Where("service_type IS NULL OR service_type = ?", *serviceType)
	}
	err := query.Order("created_at DESC").Find(&overrides).Error
	return overrides, err
}

func (r *MarginOverrideRepository) List(ctx context.Context, page, pageSize int, agencyID *uuid.UUID) ([]domain.MarginOverride, int64, error) {
	var overrides []domain.MarginOverride
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.MarginOverride{}).Preload("Agency")
	if agencyID != nil {
		query = query.Where("agency_id = ?", *agencyID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&overrides).Error

	return overrides, total, err
}
