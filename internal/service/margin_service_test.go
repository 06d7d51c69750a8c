package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/repository"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func marginServiceForTest(t *testing.T) (*service.MarginService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	cfg := &config.Config{Pricing: *testPricingConfig()}
	svc := service.NewMarginService(
		repository.NewMarginOverrideRepository(db),
		repository.NewAgencyRepository(db),
		cfg,
		zap.NewNop(),
	)
	return svc, db
}

func createAgencyRecord(t *testing.T, db *gorm.DB) *domain.Agency {
	t.Helper()
	agency := &domain.Agency{
		Name:     "Himalaya Tours",
		Code:     "HIM001",
		Email:    "bookings@himalayatours.example",
		IsActive: true,
	}
	require.NoError(t, repository.NewAgencyRepository(db).Create(context.Background(), agency))
	return agency
}

func TestMarginService_CreateRequiresExistingAgency(t *testing.T) {
	svc, _ := marginServiceForTest(t)

	_, err := svc.Create(context.Background(), &domain.CreateMarginOverrideRequest{
		AgencyID:      uuid.New(),
		MarginPercent: 15,
	})
	assert.ErrorIs(t, err, service.ErrAgencyNotFound)
}

func TestMarginService_Resolve(t *testing.T) {
	svc, db := marginServiceForTest(t)
	ctx := context.Background()
	agency := createAgencyRecord(t, db)
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	t.Run("default when no overrides", func(t *testing.T) {
		resolved, err := svc.Resolve(ctx, agency.ID, domain.ServiceTypeHotel, date)
		require.NoError(t, err)
		assert.Equal(t, 20.0, resolved.MarginPercent)
		assert.Equal(t, "default", resolved.Source)
	})

	_, err := svc.Create(ctx, &domain.CreateMarginOverrideRequest{
		AgencyID:      agency.ID,
		MarginPercent: 25,
	})
	require.NoError(t, err)

	t.Run("general override", func(t *testing.T) {
		resolved, err := svc.Resolve(ctx, agency.ID, domain.ServiceTypeHotel, date)
		require.NoError(t, err)
		assert.Equal(t, 25.0, resolved.MarginPercent)
		assert.Equal(t, "general_override", resolved.Source)
	})

	_, err = svc.Create(ctx, &domain.CreateMarginOverrideRequest{
		AgencyID:      agency.ID,
		ServiceType:   ptrServiceType(domain.ServiceTypeHotel),
		MarginPercent: 12,
	})
	require.NoError(t, err)

	t.Run("service override beats general", func(t *testing.T) {
		resolved, err := svc.Resolve(ctx, agency.ID, domain.ServiceTypeHotel, date)
		require.NoError(t, err)
		assert.Equal(t, 12.0, resolved.MarginPercent)
		assert.Equal(t, "service_override", resolved.Source)
	})

	t.Run("other service types keep the general override", func(t *testing.T) {
		resolved, err := svc.Resolve(ctx, agency.ID, domain.ServiceTypeFlight, date)
		require.NoError(t, err)
		assert.Equal(t, 25.0, resolved.MarginPercent)
		assert.Equal(t, "general_override", resolved.Source)
	})

	t.Run("unknown agency", func(t *testing.T) {
		_, err := svc.Resolve(ctx, uuid.New(), domain.ServiceTypeHotel, date)
		assert.ErrorIs(t, err, service.ErrAgencyNotFound)
	})

	t.Run("unknown service type", func(t *testing.T) {
		_, err := svc.Resolve(ctx, agency.ID, "spaceship", date)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestMarginService_CreateAndDelete(t *testing.T) {
	svc, db := marginServiceForTest(t)
	ctx := context.Background()
	agency := createAgencyRecord(t, db)

	created, err := svc.Create(ctx, &domain.CreateMarginOverrideRequest{
		AgencyID:      agency.ID,
		ServiceType:   ptrServiceType(domain.ServiceTypeHotel),
		MarginPercent: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, "Himalaya Tours", created.AgencyName)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
