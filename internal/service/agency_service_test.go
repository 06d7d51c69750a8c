package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/domain"
	"github.com/summittrails/pricing-api/internal/repository"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
)

func agencyServiceForTest(t *testing.T) *service.AgencyService {
	t.Helper()
	db := setupTestDB(t)
	return service.NewAgencyService(repository.NewAgencyRepository(db), zap.NewNop())
}

func TestAgencyService_CreateRejectsDuplicateCode(t *testing.T) {
	svc := agencyServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreateAgencyRequest{
		Name:  "Himalaya Tours",
		Code:  "HIM001",
		Email: "bookings@himalayatours.example",
	})
	require.NoError(t, err)

	// Codes match case-insensitively.
	_, err = svc.Create(ctx, &domain.CreateAgencyRequest{
		Name:  "Himalaya Tours Copy",
		Code:  "him001",
		Email: "other@example.com",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestAgencyService_DeactivateAndList(t *testing.T) {
	svc := agencyServiceForTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.CreateAgencyRequest{
		Name:  "Himalaya Tours",
		Code:  "HIM001",
		Email: "bookings@himalayatours.example",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	require.NoError(t, svc.Deactivate(ctx, created.ID))

	found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	page, err := svc.List(ctx, 1, 20, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
}

func TestAgencyService_UpdatePartialFields(t *testing.T) {
	svc := agencyServiceForTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.CreateAgencyRequest{
		Name:              "Himalaya Tours",
		Code:              "HIM001",
		Email:             "bookings@himalayatours.example",
		CommissionPercent: 5,
	})
	require.NoError(t, err)

	newEmail := "sales@himalayatours.example"
	updated, err := svc.Update(ctx, created.ID, &domain.UpdateAgencyRequest{
		Email: &newEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, newEmail, updated.Email)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Himalaya Tours", updated.Name)
	assert.Equal(t, 5.0, updated.CommissionPercent)
}
