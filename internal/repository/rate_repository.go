package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
	"gorm.io/gorm"
)

type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) *RateRepository {
	return &RateRepository{db: db}
}

func (r *RateRepository) Create(ctx context.Context, rate *domain.ServiceRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *RateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRate, error) {
	var rate domain.ServiceRate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// GetByTypeAndID looks a rate up by its service type and id. This is the
// catalog read used by quote calculation; the type acts as a guard against
// pricing a hotel id as a flight.
func (r *RateRepository) GetByTypeAndID(ctx context.Context, serviceType domain.ServiceType, id uuid.UUID) (*domain.ServiceRate, error) {
	var rate domain.ServiceRate
	err := r.db.WithContext(ctx).
		Where("id = ? AND service_type = ?", id, serviceType).
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *RateRepository) Update(ctx context.Context, rate *domain.ServiceRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

func (r *RateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ServiceRate{}, "id = ?", id).Error
}

func (r *RateRepository) List(ctx context.Context, page, pageSize int, serviceType *domain.ServiceType, activeOnly bool) ([]domain.ServiceRate, int64, error) {
	var rates []domain.ServiceRate
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ServiceRate{})

	if serviceType != nil {
		query = query.Where("service_type = ?", *serviceType)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&rates).Error

	return rates, total, err
}
