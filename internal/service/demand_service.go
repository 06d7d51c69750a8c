package service

import (
	"context"
	"fmt"
	"time"

	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/mapper"
	"github.com/summittrails/pricing-api/internal/repository"
	"go.uber.org/zap"
)

// DemandService reads and maintains demand metrics. Scores drive the
// automatic demand rule; they are produced either by the external
// warehouse, a manual upsert, or the nightly aggregation of usage counters.
type DemandService struct {
	demandRepo *repository.DemandMetricRepository
	logger     *zap.Logger
}

func NewDemandService(demandRepo *repository.DemandMetricRepository, logger *zap.Logger) *DemandService {
	return &DemandService{demandRepo: demandRepo, logger: logger}
}

// ListRange returns the metrics stored for a date range
func (s *DemandService) ListRange(ctx context.Context, from, to time.Time, serviceType *domain.ServiceType) ([]domain.DemandMetricDTO, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to before from", ErrInvalidInput)
	}
	if serviceType != nil && !serviceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, *serviceType)
	}

	metrics, err := s.demandRepo.ListRange(ctx, from, to, serviceType)
	if err != nil {
		return nil, fmt.Errorf("failed to list demand metrics: %w", err)
	}

	dtos := make([]domain.DemandMetricDTO, len(metrics))
	for i := range metrics {
		dtos[i] = mapper.ToDemandMetricDTO(&metrics[i])
	}
	return dtos, nil
}

// Upsert sets the score for one (date, serviceType) key. Used by ops to
// pin a score ahead of a known event, e.g. a festival weekend.
func (s *DemandService) Upsert(ctx context.Context, date time.Time, serviceType *domain.ServiceType, score float64) (*domain.DemandMetricDTO, error) {
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: demand score %.1f outside 0..100", ErrInvalidInput, score)
	}
	if serviceType != nil && !serviceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, *serviceType)
	}

	metric := &domain.DemandMetric{
		Date:        date,
		ServiceType: serviceType,
		DemandScore: score,
	}
	if err := s.demandRepo.Upsert(ctx, metric); err != nil {
		return nil, fmt.Errorf("failed to upsert demand metric: %w", err)
	}

	scope := "all"
	if serviceType != nil {
		scope = string(*serviceType)
	}
	s.logger.Info("demand metric upserted",
		zap.String("date", date.Format("2006-01-02")),
		zap.String("scope", scope),
		zap.Float64("score", score),
	)

	dto := mapper.ToDemandMetricDTO(metric)
	return &dto, nil
}

// AggregateCounters folds usage counters recorded since the given time
// into demand metrics and prunes counters older than the retention cutoff.
// Scores are normalized against the busiest (date, serviceType) bucket in
// the window so the scale stays 0..100 regardless of traffic volume.
func (s *DemandService) AggregateCounters(ctx context.Context, since time.Time, retention time.Duration) (int, error) {
	totals, err := s.demandRepo.SumUsage(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("failed to sum usage counters: %w", err)
	}
	if len(totals) == 0 {
		return 0, nil
	}

	type key struct {
		date        time.Time
		serviceType string
	}
	type bucket struct {
		date        time.Time
		serviceType *domain.ServiceType
		searches    int
		quotes      int
	}

	buckets := make(map[key]*bucket)
	for _, t := range totals {
		k := key{date: t.Date}
		if t.ServiceType != nil {
			k.serviceType = string(*t.ServiceType)
		}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{date: t.Date, serviceType: t.ServiceType}
			buckets[k] = b
		}
		switch t.Kind {
		case "quote":
			b.quotes += t.Total
		default:
			b.searches += t.Total
		}
	}

	// quotes weigh 3x searches
	weight := func(b *bucket) float64 {
		return float64(b.searches) + 3*float64(b.quotes)
	}

	var maxWeight float64
	for _, b := range buckets {
		if w := weight(b); w > maxWeight {
			maxWeight = w
		}
	}

	written := 0
	for _, b := range buckets {
		score := 0.0
		if maxWeight > 0 {
			score = 100 * weight(b) / maxWeight
		}
		metric := &domain.DemandMetric{
			Date:        b.date,
			ServiceType: b.serviceType,
			DemandScore: score,
			SearchCount: b.searches,
			QuoteCount:  b.quotes,
		}
		if err := s.demandRepo.Upsert(ctx, metric); err != nil {
			s.logger.Warn("failed to upsert aggregated demand metric",
				zap.String("date", b.date.Format("2006-01-02")),
				zap.Error(err),
			)
			continue
		}
		written++
	}

	if err := s.demandRepo.PruneUsage(ctx, time.Now().UTC().Add(-retention)); err != nil {
		s.logger.Warn("failed to prune usage counters", zap.Error(err))
	}

	return written, nil
}
