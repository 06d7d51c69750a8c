package repository

import (
	"context"

	"github.com/summittrails/pricing-api/internal/domain"
	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditLogRepository) List(ctx context.Context, page, pageSize int, entityType *string) ([]domain.AuditLog, int64, error) {
	var entries []domain.AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.AuditLog{})
	if entityType != nil {
		query = query.Where("entity_type = ?", *entityType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&entries).Error

	return entries, total, err
}
