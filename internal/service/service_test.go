package service_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/repository"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svctest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.ServiceRate{},
		&domain.PricingRule{},
		&domain.Agency{},
		&domain.MarginOverride{},
		&domain.DemandMetric{},
		&domain.UsageCounter{},
		&domain.User{},
		&domain.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

func testPricingConfig() *config.PricingConfig {
	return &config.PricingConfig{
		DefaultMarginPercent: 20,
		SimulateMaxDays:      90,
		SimulateConcurrency:  4,
	}
}

func newPricingService(db *gorm.DB) *service.PricingService {
	return service.NewPricingService(
		repository.NewPricingRuleRepository(db),
		repository.NewDemandMetricRepository(db),
		testPricingConfig(),
		zap.NewNop(),
	)
}

func newQuoteService(db *gorm.DB) *service.QuoteService {
	return service.NewQuoteService(
		repository.NewRateRepository(db),
		repository.NewMarginOverrideRepository(db),
		repository.NewDemandMetricRepository(db),
		newPricingService(db),
		testPricingConfig(),
		zap.NewNop(),
	)
}

func ptrServiceType(s domain.ServiceType) *domain.ServiceType { return &s }
