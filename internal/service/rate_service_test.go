package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/repository"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
)

func rateServiceForTest(t *testing.T) *service.RateService {
	t.Helper()
	db := setupTestDB(t)
	return service.NewRateService(repository.NewRateRepository(db), zap.NewNop())
}

func TestRateService_CreateValidation(t *testing.T) {
	svc := rateServiceForTest(t)
	ctx := context.Background()

	t.Run("unknown service type", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateServiceRateRequest{
			ServiceType: "spaceship",
			Name:        "Orbit Shuttle",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("inverted validity window", func(t *testing.T) {
		from := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.Create(ctx, &domain.CreateServiceRateRequest{
			ServiceType: domain.ServiceTypeHotel,
			Name:        "Namche Lodge",
			ValidFrom:   &from,
			ValidTo:     &to,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("currency defaults to USD", func(t *testing.T) {
		created, err := svc.Create(ctx, &domain.CreateServiceRateRequest{
			ServiceType: domain.ServiceTypeGuide,
			Name:        "Trek Guide",
			CostPerDay:  30,
			SellPerDay:  45,
		})
		require.NoError(t, err)
		assert.Equal(t, "USD", created.Currency)
		assert.True(t, created.IsActive)
	})
}

func TestRateService_UpdateAndDeactivate(t *testing.T) {
	svc := rateServiceForTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.CreateServiceRateRequest{
		ServiceType: domain.ServiceTypeFlight,
		Name:        "KTM-LUA Sector",
		CostPrice:   150,
		SellPrice:   180,
	})
	require.NoError(t, err)

	newSell := 195.0
	updated, err := svc.Update(ctx, created.ID, &domain.UpdateServiceRateRequest{
		SellPrice: &newSell,
	})
	require.NoError(t, err)
	assert.Equal(t, 195.0, updated.SellPrice)
	assert.Equal(t, 150.0, updated.CostPrice)

	require.NoError(t, svc.Deactivate(ctx, created.ID))
	found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestRateService_ListFilters(t *testing.T) {
	svc := rateServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreateServiceRateRequest{
		ServiceType: domain.ServiceTypeHotel,
		Name:        "Lodge A",
		CostDouble:  50,
		SellDouble:  75,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.CreateServiceRateRequest{
		ServiceType: domain.ServiceTypeGuide,
		Name:        "Trek Guide",
		CostPerDay:  30,
		SellPerDay:  45,
	})
	require.NoError(t, err)

	page, err := svc.List(ctx, 1, 20, ptrServiceType(domain.ServiceTypeHotel), false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	dtos, ok := page.Data.([]domain.ServiceRateDTO)
	require.True(t, ok)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Lodge A", dtos[0].Name)
}

func TestRateService_GetUnknownID(t *testing.T) {
	svc := rateServiceForTest(t)
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrRateNotFound)
}
