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

// RateService manages the service rate catalog
type RateService struct {
	rateRepo *repository.RateRepository
	logger   *zap.Logger
}

func NewRateService(rateRepo *repository.RateRepository, logger *zap.Logger) *RateService {
	return &RateService{rateRepo: rateRepo, logger: logger}
}

// Create adds a catalog rate
func (s *RateService) Create(ctx context.Context, req *domain.CreateServiceRateRequest) (*domain.ServiceRateDTO, error) {
	if !req.ServiceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, req.ServiceType)
	}
	if req.ValidFrom != nil && req.ValidTo != nil && req.ValidTo.Before(*req.ValidFrom) {
		return nil, fmt.Errorf("%w: validTo before validFrom", ErrInvalidInput)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	rate := &domain.ServiceRate{
		ServiceType: req.ServiceType,
		Name:        req.Name,
		SupplierRef: req.SupplierRef,
		Currency:    currency,

		CostSingle:       req.CostSingle,
		CostDouble:       req.CostDouble,
		CostTriple:       req.CostTriple,
		CostExtraBed:     req.CostExtraBed,
		CostChildWithBed: req.CostChildWithBed,
		CostChildNoBed:   req.CostChildNoBed,
		SellSingle:       req.SellSingle,
		SellDouble:       req.SellDouble,
		SellTriple:       req.SellTriple,
		SellExtraBed:     req.SellExtraBed,
		SellChildWithBed: req.SellChildWithBed,
		SellChildNoBed:   req.SellChildNoBed,
		CostPerDay:       req.CostPerDay,
		SellPerDay:       req.SellPerDay,
		CostPrice:        req.CostPrice,
		SellPrice:        req.SellPrice,
		CostPerSeat:      req.CostPerSeat,
		SellPerSeat:      req.SellPerSeat,
		CostPerCharter:   req.CostPerCharter,
		SellPerCharter:   req.SellPerCharter,

		IsActive:  true,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
	}

	if err := s.rateRepo.Create(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to create service rate: %w", err)
	}

	s.logger.Info("service rate created",
		zap.String("rate_id", rate.ID.String()),
		zap.String("service_type", string(rate.ServiceType)),
		zap.String("name", rate.Name),
	)

	dto := mapper.ToServiceRateDTO(rate)
	return &dto, nil
}

// GetByID returns one catalog rate
func (s *RateService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRateDTO, error) {
	rate, err := s.rateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRateNotFound
		}
		return nil, fmt.Errorf("failed to get service rate: %w", err)
	}
	dto := mapper.ToServiceRateDTO(rate)
	return &dto, nil
}

// Update applies partial changes to a rate
func (s *RateService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateServiceRateRequest) (*domain.ServiceRateDTO, error) {
	rate, err := s.rateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRateNotFound
		}
		return nil, fmt.Errorf("failed to get service rate: %w", err)
	}

	if req.Name != nil {
		rate.Name = *req.Name
	}
	if req.SupplierRef != nil {
		rate.SupplierRef = *req.SupplierRef
	}
	if req.Currency != nil {
		rate.Currency = *req.Currency
	}
	applyRatePrices(rate, req)
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}
	if req.ValidFrom != nil {
		rate.ValidFrom = req.ValidFrom
	}
	if req.ValidTo != nil {
		rate.ValidTo = req.ValidTo
	}
	if rate.ValidFrom != nil && rate.ValidTo != nil && rate.ValidTo.Before(*rate.ValidFrom) {
		return nil, fmt.Errorf("%w: validTo before validFrom", ErrInvalidInput)
	}

	if err := s.rateRepo.Update(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to update service rate: %w", err)
	}

	dto := mapper.ToServiceRateDTO(rate)
	return &dto, nil
}

// Deactivate marks a rate inactive so it no longer prices quotes
func (s *RateService) Deactivate(ctx context.Context, id uuid.UUID) error {
	rate, err := s.rateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRateNotFound
		}
		return fmt.Errorf("failed to get service rate: %w", err)
	}
	rate.IsActive = false
	if err := s.rateRepo.Update(ctx, rate); err != nil {
		return fmt.Errorf("failed to deactivate service rate: %w", err)
	}
	s.logger.Info("service rate deactivated", zap.String("rate_id", id.String()))
	return nil
}

// List returns catalog rates with pagination
func (s *RateService) List(ctx context.Context, page, pageSize int, serviceType *domain.ServiceType, activeOnly bool) (*domain.PaginatedResponse, error) {
	rates, total, err := s.rateRepo.List(ctx, page, pageSize, serviceType, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list service rates: %w", err)
	}

	dtos := make([]domain.ServiceRateDTO, len(rates))
	for i := range rates {
		dtos[i] = mapper.ToServiceRateDTO(&rates[i])
	}

	return paginate(dtos, total, page, pageSize), nil
}

func applyRatePrices(rate *domain.ServiceRate, req *domain.UpdateServiceRateRequest) {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&rate.CostSingle, req.CostSingle)
	set(&rate.CostDouble, req.CostDouble)
	set(&rate.CostTriple, req.CostTriple)
	set(&rate.CostExtraBed, req.CostExtraBed)
	set(&rate.CostChildWithBed, req.CostChildWithBed)
	set(&rate.CostChildNoBed, req.CostChildNoBed)
	set(&rate.SellSingle, req.SellSingle)
	set(&rate.SellDouble, req.SellDouble)
	set(&rate.SellTriple, req.SellTriple)
	set(&rate.SellExtraBed, req.SellExtraBed)
	set(&rate.SellChildWithBed, req.SellChildWithBed)
	set(&rate.SellChildNoBed, req.SellChildNoBed)
	set(&rate.CostPerDay, req.CostPerDay)
	set(&rate.SellPerDay, req.SellPerDay)
	set(&rate.CostPrice, req.CostPrice)
	set(&rate.SellPrice, req.SellPrice)
	set(&rate.CostPerSeat, req.CostPerSeat)
	set(&rate.SellPerSeat, req.SellPerSeat)
	set(&rate.CostPerCharter, req.CostPerCharter)
	set(&rate.SellPerCharter, req.SellPerCharter)
}

func paginate(data interface{}, total int64, page, pageSize int) *domain.PaginatedResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &domain.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
