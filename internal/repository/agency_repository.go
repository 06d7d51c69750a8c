package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
	"gorm.io/gorm"
)

type AgencyRepository struct {
	db *gorm.DB
}

func NewAgencyRepository(db *gorm.DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

func (r *AgencyRepository) Create(ctx context.Context, agency *domain.Agency) error {
	return r.db.WithContext(ctx).Create(agency).Error
}

func (r *AgencyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agency, error) {
	var agency domain.Agency
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&agency).Error
	if err != nil {
		return nil, err
	}
	return &agency, nil
}

func (r *AgencyRepository) GetByCode(ctx context.Context, code string) (*domain.Agency, error) {
	var agency domain.Agency
	err := r.db.WithContext(ctx).Where("LOWER(code) = ?", strings.ToLower(code)).First(&agency).Error
	if err != nil {
		return nil, err
	}
	return &agency, nil
}

func (r *AgencyRepository) Update(ctx context.Context, agency *domain.Agency) error {
	return r.db.WithContext(ctx).Save(agency).Error
}

func (r *AgencyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Agency{}, "id = ?", id).Error
}

func (r *AgencyRepository) List(ctx context.Context, page, pageSize int, activeOnly bool) ([]domain.Agency, int64, error) {
	var agencies []domain.Agency
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Agency{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&agencies).Error

	return agencies, total, err
}
