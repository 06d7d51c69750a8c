package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summittrails/pricing-api/internal/auth"
	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/domain"
	"go.uber.org/zap"
)

func testMiddleware() (*auth.Middleware, *auth.TokenIssuer) {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:   "test-secret-at-least-32-characters!!",
			Issuer:      "summittrails-pricing",
			ApiKeyValue: "system-api-key",
		},
	}
	return auth.NewMiddleware(cfg, zap.NewNop()), auth.NewTokenIssuer(&cfg.Auth)
}

func capturingHandler(captured **auth.UserContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := auth.FromContext(r.Context()); ok {
			*captured = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func staffToken(t *testing.T, issuer *auth.TokenIssuer) string {
	t.Helper()
	token, err := issuer.IssueToken(&domain.User{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		Email:       "staff@summittrails.com",
		DisplayName: "Staff Member",
		Role:        domain.RoleStaff,
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func TestMiddleware_Authenticate(t *testing.T) {
	mw, issuer := testMiddleware()

	t.Run("valid bearer token", func(t *testing.T) {
		var captured *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
		req.Header.Set("Authorization", "Bearer "+staffToken(t, issuer))
		rec := httptest.NewRecorder()

		mw.Authenticate(capturingHandler(&captured)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, domain.RoleStaff, captured.Role)
	})

	t.Run("valid api key becomes system admin", func(t *testing.T) {
		var captured *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
		req.Header.Set("x-api-key", "system-api-key")
		rec := httptest.NewRecorder()

		mw.Authenticate(capturingHandler(&captured)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, domain.RoleAdmin, captured.Role)
	})

	t.Run("wrong api key", func(t *testing.T) {
		var captured *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
		req.Header.Set("x-api-key", "wrong")
		rec := httptest.NewRecorder()

		mw.Authenticate(capturingHandler(&captured)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		var captured *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
		rec := httptest.NewRecorder()

		mw.Authenticate(capturingHandler(&captured)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		var captured *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		mw.Authenticate(capturingHandler(&captured)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMiddleware_OptionalAuthenticate(t *testing.T) {
	mw, issuer := testMiddleware()

	t.Run("anonymous passes through without context", func(t *testing.T) {
		var captured *auth.UserContext
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", nil)
		rec := httptest.NewRecorder()

		mw.OptionalAuthenticate(capturingHandler(&captured)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, captured)
	})

	t.Run("invalid token still passes through unauthenticated", func(t *testing.T) {
		var captured *auth.UserContext
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		mw.OptionalAuthenticate(capturingHandler(&captured)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, captured)
	})

	t.Run("valid token attaches context", func(t *testing.T) {
		var captured *auth.UserContext
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", nil)
		req.Header.Set("Authorization", "Bearer "+staffToken(t, issuer))
		rec := httptest.NewRecorder()

		mw.OptionalAuthenticate(capturingHandler(&captured)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, domain.ChannelInternal, captured.Channel())
	})
}

func TestMiddleware_RequireStaff(t *testing.T) {
	mw, issuer := testMiddleware()

	protected := mw.Authenticate(mw.RequireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("staff allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
		req.Header.Set("Authorization", "Bearer "+staffToken(t, issuer))
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("agency user forbidden", func(t *testing.T) {
		agencyID := uuid.New()
		token, err := issuer.IssueToken(&domain.User{
			BaseModel: domain.BaseModel{ID: uuid.New()},
			Email:     "agent@himalayatours.example",
			Role:      domain.RoleAgencyUser,
			AgencyID:  &agencyID,
		}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
