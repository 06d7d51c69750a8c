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

// AgencyService manages B2B agency accounts
type AgencyService struct {
	agencyRepo *repository.AgencyRepository
	logger     *zap.Logger
}

func NewAgencyService(agencyRepo *repository.AgencyRepository, logger *zap.Logger) *AgencyService {
	return &AgencyService{agencyRepo: agencyRepo, logger: logger}
}

// Create registers an agency. Codes are unique per agency and matched
// case-insensitively.
func (s *AgencyService) Create(ctx context.Context, req *domain.CreateAgencyRequest) (*domain.AgencyDTO, error) {
	if existing, err := s.agencyRepo.GetByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: agency code %q already in use", ErrConflict, req.Code)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check agency code: %w", err)
	}

	agency := &domain.Agency{
		Name:              req.Name,
		Code:              req.Code,
		Email:             req.Email,
		Phone:             req.Phone,
		Country:           req.Country,
		CommissionPercent: req.CommissionPercent,
		CreditLimit:       req.CreditLimit,
		IsActive:          true,
	}

	if err := s.agencyRepo.Create(ctx, agency); err != nil {
		return nil, fmt.Errorf("failed to create agency: %w", err)
	}

	s.logger.Info("agency created",
		zap.String("agency_id", agency.ID.String()),
		zap.String("code", agency.Code),
	)

	dto := mapper.ToAgencyDTO(agency)
	return &dto, nil
}

// GetByID returns one agency
func (s *AgencyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AgencyDTO, error) {
	agency, err := s.agencyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, fmt.Errorf("failed to get agency: %w", err)
	}
	dto := mapper.ToAgencyDTO(agency)
	return &dto, nil
}

// Update applies partial changes to an agency
func (s *AgencyService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAgencyRequest) (*domain.AgencyDTO, error) {
	agency, err := s.agencyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, fmt.Errorf("failed to get agency: %w", err)
	}

	if req.Name != nil {
		agency.Name = *req.Name
	}
	if req.Email != nil {
		agency.Email = *req.Email
	}
	if req.Phone != nil {
		agency.Phone = *req.Phone
	}
	if req.Country != nil {
		agency.Country = *req.Country
	}
	if req.CommissionPercent != nil {
		agency.CommissionPercent = *req.CommissionPercent
	}
	if req.CreditLimit != nil {
		agency.CreditLimit = *req.CreditLimit
	}
	if req.IsActive != nil {
		agency.IsActive = *req.IsActive
	}

	if err := s.agencyRepo.Update(ctx, agency); err != nil {
		return nil, fmt.Errorf("failed to update agency: %w", err)
	}

	dto := mapper.ToAgencyDTO(agency)
	return &dto, nil
}

// Deactivate marks an agency inactive; its tokens stop resolving to the
// agency channel on the next login.
func (s *AgencyService) Deactivate(ctx context.Context, id uuid.UUID) error {
	agency, err := s.agencyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAgencyNotFound
		}
		return fmt.Errorf("failed to get agency: %w", err)
	}
	agency.IsActive = false
	if err := s.agencyRepo.Update(ctx, agency); err != nil {
		return fmt.Errorf("failed to deactivate agency: %w", err)
	}
	s.logger.Info("agency deactivated", zap.String("agency_id", id.String()))
	return nil
}

// List returns agencies with pagination
func (s *AgencyService) List(ctx context.Context, page, pageSize int, activeOnly bool) (*domain.PaginatedResponse, error) {
	agencies, total, err := s.agencyRepo.List(ctx, page, pageSize, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list agencies: %w", err)
	}

	dtos := make([]domain.AgencyDTO, len(agencies))
	for i := range agencies {
		dtos[i] = mapper.ToAgencyDTO(&agencies[i])
	}

	return paginate(dtos, total, page, pageSize), nil
}
