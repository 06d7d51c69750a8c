package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DemandAggregationJobName is the name of the demand aggregation job
const DemandAggregationJobName = "demand_aggregation"

// DefaultAggregationWindow is how far back usage counters are folded on
// each run. Counters older than the retention cutoff are pruned.
const (
	DefaultAggregationWindow = 14 * 24 * time.Hour
	DefaultCounterRetention  = 30 * 24 * time.Hour
)

// DemandAggregator folds usage counters into demand metrics. This
// interface keeps the job decoupled from the service package.
type DemandAggregator interface {
	AggregateCounters(ctx context.Context, since time.Time, retention time.Duration) (int, error)
}

// DemandAggregationJob periodically converts raw search and quote counters
// into per-date demand scores. The scores only matter when the external
// warehouse is unavailable; the lookup chain prefers the warehouse.
type DemandAggregationJob struct {
	aggregator DemandAggregator
	logger     *zap.Logger
	timeout    time.Duration
	window     time.Duration
	retention  time.Duration
}

// NewDemandAggregationJob creates a new demand aggregation job.
func NewDemandAggregationJob(aggregator DemandAggregator, logger *zap.Logger, timeout time.Duration) *DemandAggregationJob {
	return &DemandAggregationJob{
		aggregator: aggregator,
		logger:     logger,
		timeout:    timeout,
		window:     DefaultAggregationWindow,
		retention:  DefaultCounterRetention,
	}
}

// Run executes the aggregation. Called by the scheduler.
func (j *DemandAggregationJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	since := start.UTC().Add(-j.window)

	written, err := j.aggregator.AggregateCounters(ctx, since, j.retention)
	if err != nil {
		j.logger.Error("demand aggregation failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("demand aggregation completed",
		zap.Int("metrics_written", written),
		zap.Duration("duration", time.Since(start)))
}
