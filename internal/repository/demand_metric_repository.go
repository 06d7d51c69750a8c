package repository

import (
	"context"
	"time"

	"github.com/summittrails/pricing-api/internal/domain"
	"gorm.io/gorm"
)

type DemandMetricRepository struct {
	db *gorm.DB
}

func NewDemandMetricRepository(db *gorm.DB) *DemandMetricRepository {
	return &DemandMetricRepository{db: db}
}

// GetScore returns the demand score for a date, preferring a metric scoped
// to the service type over the general one. gorm.ErrRecordNotFound means no
// metric exists for the date at all.
func (r *DemandMetricRepository) GetScore(ctx context.Context, serviceType *domain.ServiceType, date time.Time) (float64, error) {
	day := date.Truncate(24 * time.Hour)

	var metric domain.DemandMetric
	if serviceType != nil {
		err := r.db.WithContext(ctx).
			Where("date = ? AND service_type = ?", day, *serviceType).
			First(&metric).Error
		if err == nil {
			return metric.DemandScore, nil
		}
		if err != gorm.ErrRecordNotFound {
			return 0, err
		}
	}

	err := r.db.WithContext(ctx).
		Where("date = ? AND service_type IS NULL", day).
		First(&metric).Error
	if err != nil {
		return 0, err
	}
	return metric.DemandScore, nil
}

// Upsert writes a metric row for (date, serviceType), replacing any
// existing score for that key.
func (r *DemandMetricRepository) Upsert(ctx context.Context, metric *domain.DemandMetric) error {
	day := metric.Date.Truncate(24 * time.Hour)

	var existing domain.DemandMetric
	query := r.db.WithContext(ctx).Where("date = ?", day)
	if metric.ServiceType != nil {
		query = query.Where("service_type = ?", *metric.ServiceType)
	} else {
		query = query.Where("service_type IS NULL")
	}

	err := query.First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		metric.Date = day
		return r.db.WithContext(ctx).Create(metric).Error
	}
	if err != nil {
		return err
	}

	existing.DemandScore = metric.DemandScore
	existing.SearchCount = metric.SearchCount
	existing.QuoteCount = metric.QuoteCount
	return r.db.WithContext(ctx).Save(&existing).Error
}

func (r *DemandMetricRepository) ListRange(ctx context.Context, from, to time.Time, serviceType *domain.ServiceType) ([]domain.DemandMetric, error) {
	var metrics []domain.DemandMetric
	query := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from.Truncate(24*time.Hour), to.Truncate(24*time.Hour))
	if serviceType != nil {
		query = query.Where("service_type = ?", *serviceType)
	}
	err := query.Order("date ASC").Find(&metrics).Error
	return metrics, err
}

// RecordUsage appends a usage counter row. Counters are telemetry folded
// into demand metrics by the aggregation job; failures here must never
// affect pricing.
func (r *DemandMetricRepository) RecordUsage(ctx context.Context, counter *domain.UsageCounter) error {
	counter.Date = counter.Date.Truncate(24 * time.Hour)
	return r.db.WithContext(ctx).Create(counter).Error
}

// UsageTotals sums counters per (date, serviceType, kind) since the given
// time, for the aggregation job.
type UsageTotal struct {
	Date        time.Time
	ServiceType *domain.ServiceType
	Kind        string
	Total       int
}

func (r *DemandMetricRepository) SumUsage(ctx context.Context, since time.Time) ([]UsageTotal, error) {
	var totals []UsageTotal
	err := r.db.WithContext(ctx).
		Model(&domain.UsageCounter{}).
		Select("date, service_type, kind, SUM(count) AS total").
		Where("date >= ?", since.Truncate(24*time.Hour)).
		Group("date, service_type, kind").
		Scan(&totals).Error
	return totals, err
}

// PruneUsage deletes counters older than the cutoff
func (r *DemandMetricRepository) PruneUsage(ctx context.Context, before time.Time) error {
	return r.db.WithContext(ctx).
		Delete(&domain.UsageCounter{}, "date < ?", before.Truncate(24*time.Hour)).Error
}
