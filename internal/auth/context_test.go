package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/auth"
	"github.com/summittrails/pricing-api/internal/domain"
)

func TestUserContext_Channel(t *testing.T) {
	agencyID := uuid.New()

	cases := []struct {
		name     string
		user     *auth.UserContext
		expected domain.Channel
	}{
		{"nil user is retail", nil, domain.ChannelRetail},
		{"admin is internal", &auth.UserContext{Role: domain.RoleAdmin}, domain.ChannelInternal},
		{"staff is internal", &auth.UserContext{Role: domain.RoleStaff}, domain.ChannelInternal},
		{"agency user with agency", &auth.UserContext{Role: domain.RoleAgencyUser, AgencyID: &agencyID}, domain.ChannelAgency},
		{"agency user without agency is retail", &auth.UserContext{Role: domain.RoleAgencyUser}, domain.ChannelRetail},
		{"unknown role is retail", &auth.UserContext{Role: "customer"}, domain.ChannelRetail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.user.Channel())
		})
	}
}

func TestChannelFromContext(t *testing.T) {
	assert.Equal(t, domain.ChannelRetail, auth.ChannelFromContext(context.Background()))

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{Role: domain.RoleStaff})
	assert.Equal(t, domain.ChannelInternal, auth.ChannelFromContext(ctx))
}

func TestWithUserContextRoundTrip(t *testing.T) {
	user := &auth.UserContext{
		UserID: uuid.New(),
		Email:  "staff@summittrails.com",
		Role:   domain.RoleStaff,
	}

	ctx := auth.WithUserContext(context.Background(), user)
	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
	assert.True(t, got.IsStaff())
	assert.False(t, got.IsAdmin())
}
