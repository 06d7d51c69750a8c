package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/auth"
	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/domain"
)

func testIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(&config.AuthConfig{
		JWTSecret: "test-secret-at-least-32-characters!!",
		Issuer:    "summittrails-pricing",
	})
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := testIssuer()
	agencyID := uuid.New()

	user := &domain.User{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		Email:       "agent@himalayatours.example",
		DisplayName: "Agency Agent",
		Role:        domain.RoleAgencyUser,
		AgencyID:    &agencyID,
	}

	token, err := issuer.IssueToken(user, time.Hour)
	require.NoError(t, err)

	uc, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, uc.UserID)
	assert.Equal(t, user.Email, uc.Email)
	assert.Equal(t, domain.RoleAgencyUser, uc.Role)
	require.NotNil(t, uc.AgencyID)
	assert.Equal(t, agencyID, *uc.AgencyID)
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	issuer := testIssuer()
	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "staff@summittrails.com",
		Role:      domain.RoleStaff,
	}

	token, err := issuer.IssueToken(user, -time.Minute)
	require.NoError(t, err)

	_, err = issuer.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := testIssuer()
	other := auth.NewTokenIssuer(&config.AuthConfig{
		JWTSecret: "a-completely-different-signing-secret",
		Issuer:    "summittrails-pricing",
	})

	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "staff@summittrails.com",
		Role:      domain.RoleStaff,
	}

	token, err := other.IssueToken(user, time.Hour)
	require.NoError(t, err)

	_, err = issuer.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenIssuer_RejectsWrongIssuer(t *testing.T) {
	issuer := testIssuer()
	other := auth.NewTokenIssuer(&config.AuthConfig{
		JWTSecret: "test-secret-at-least-32-characters!!",
		Issuer:    "someone-else",
	})

	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "staff@summittrails.com",
		Role:      domain.RoleStaff,
	}

	token, err := other.IssueToken(user, time.Hour)
	require.NoError(t, err)

	_, err = issuer.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := testIssuer()
	_, err := issuer.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
