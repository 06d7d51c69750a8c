package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/mapper"
	"github.com/summittrails/pricing-api/internal/repository"
	"go.uber.org/zap"
)

// AuditLogService records and lists mutating admin actions
type AuditLogService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
}

func NewAuditLogService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{auditRepo: auditRepo, logger: logger}
}

// Record appends an audit entry. Audit failures are logged, never
// propagated; a failed write must not roll back the action it records.
func (s *AuditLogService) Record(ctx context.Context, userID *uuid.UUID, userEmail, action, entityType, entityID, detail, requestID string) {
	entry := &domain.AuditLog{
		UserID:     userID,
		UserEmail:  userEmail,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		RequestID:  requestID,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit entry",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.Error(err),
		)
	}
}

// List returns audit entries with pagination
func (s *AuditLogService) List(ctx context.Context, page, pageSize int, entityType *string) (*domain.PaginatedResponse, error) {
	entries, total, err := s.auditRepo.List(ctx, page, pageSize, entityType)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	dtos := make([]domain.AuditLogDTO, len(entries))
	for i := range entries {
		dtos[i] = mapper.ToAuditLogDTO(&entries[i])
	}

	return paginate(dtos, total, page, pageSize), nil
}
