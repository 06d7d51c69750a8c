package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/mapper"
	"github.com/summittrails/pricing-api/internal/pricing"
	"github.com/summittrails/pricing-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MarginService manages per-agency wholesale margin overrides
type MarginService struct {
	overrideRepo *repository.MarginOverrideRepository
	agencyRepo   *repository.AgencyRepository
	cfg          *config.Config
	logger       *zap.Logger
}

func NewMarginService(overrideRepo *repository.MarginOverrideRepository, agencyRepo *repository.AgencyRepository, cfg *config.Config, logger *zap.Logger) *MarginService {
	return &MarginService{overrideRepo: overrideRepo, agencyRepo: agencyRepo, cfg: cfg, logger: logger}
}

// Create sets a margin override for an agency
func (s *MarginService) Create(ctx context.Context, req *domain.CreateMarginOverrideRequest) (*domain.MarginOverrideDTO, error) {
	if req.ServiceType != nil && !req.ServiceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, *req.ServiceType)
	}
	if req.ValidFrom != nil && req.ValidTo != nil && req.ValidTo.Before(*req.ValidFrom) {
		return nil, fmt.Errorf("%w: validTo before validFrom", ErrInvalidInput)
	}

	agency, err := s.agencyRepo.GetByID(ctx, req.AgencyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, fmt.Errorf("failed to get agency: %w", err)
	}

	override := &domain.MarginOverride{
		AgencyID:      agency.ID,
		ServiceType:   req.ServiceType,
		MarginPercent: req.MarginPercent,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
	}

	if err := s.overrideRepo.Create(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to create margin override: %w", err)
	}

	scope := "general"
	if override.ServiceType != nil {
		scope = string(*override.ServiceType)
	}
	s.logger.Info("margin override created",
		zap.String("override_id", override.ID.String()),
		zap.String("agency_id", agency.ID.String()),
		zap.String("scope", scope),
		zap.Float64("margin_percent", override.MarginPercent),
	)

	override.Agency = agency
	dto := mapper.ToMarginOverrideDTO(override)
	return &dto, nil
}

// GetByID returns one margin override
func (s *MarginService) GetByID(ctx context.Context, id uuid.UUID) (*domain.MarginOverrideDTO, error) {
	override, err := s.overrideRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get margin override: %w", err)
	}
	dto := mapper.ToMarginOverrideDTO(override)
	return &dto, nil
}

// Delete removes a margin override; the agency falls back to the next
// override in precedence, or the platform default.
func (s *MarginService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.overrideRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get margin override: %w", err)
	}
	if err := s.overrideRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete margin override: %w", err)
	}
	s.logger.Info("margin override deleted", zap.String("override_id", id.String()))
	return nil
}

// List returns margin overrides with pagination
func (s *MarginService) List(ctx context.Context, page, pageSize int, agencyID *uuid.UUID) (*domain.PaginatedResponse, error) {
	overrides, total, err := s.overrideRepo.List(ctx, page, pageSize, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list margin overrides: %w", err)
	}

	dtos := make([]domain.MarginOverrideDTO, len(overrides))
	for i := range overrides {
		dtos[i] = mapper.ToMarginOverrideDTO(&overrides[i])
	}

	return paginate(dtos, total, page, pageSize), nil
}

// ResolvedMarginDTO reports the margin an agency would be charged for a
// service type on a date, and where it came from.
type ResolvedMarginDTO struct {
	AgencyID      uuid.UUID          `json:"agencyId"`
	ServiceType   domain.ServiceType `json:"serviceType"`
	Date          string             `json:"date"`
	MarginPercent float64            `json:"marginPercent"`
	Source        string             `json:"source"` // service_override, general_override, default
}

// Resolve answers "what margin applies" without pricing anything. Useful
// for support staff checking an agency's terms.
func (s *MarginService) Resolve(ctx context.Context, agencyID uuid.UUID, serviceType domain.ServiceType, date time.Time) (*ResolvedMarginDTO, error) {
	if !serviceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, serviceType)
	}
	if _, err := s.agencyRepo.GetByID(ctx, agencyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, fmt.Errorf("failed to get agency: %w", err)
	}

	overrides, err := s.overrideRepo.ListByAgency(ctx, agencyID, &serviceType)
	if err != nil {
		return nil, fmt.Errorf("failed to list margin overrides: %w", err)
	}

	percent := pricing.ResolveMarginPercent(overrides, serviceType, date, s.cfg.Pricing.DefaultMarginPercent)

	source := "default"
	for i := range overrides {
		o := &overrides[i]
		if o.ServiceType != nil && *o.ServiceType == serviceType && o.ValidOn(date) {
			source = "service_override"
			break
		}
		if o.ServiceType == nil && o.ValidOn(date) && source == "default" {
			source = "general_override"
		}
	}

	return &ResolvedMarginDTO{
		AgencyID:      agencyID,
		ServiceType:   serviceType,
		Date:          date.Format("2006-01-02"),
		MarginPercent: percent,
		Source:        source,
	}, nil
}
