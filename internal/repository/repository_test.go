package repository_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// setupTestDB opens an isolated in-memory sqlite database with the full
// schema migrated. Each call gets its own database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", testDBSeq.Add(1))
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

func ptrServiceType(s domain.ServiceType) *domain.ServiceType { return &s }
