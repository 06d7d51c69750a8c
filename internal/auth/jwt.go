package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/config"
	"github.com/summittrails/pricing-api/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenIssuer signs and validates platform-issued HS256 tokens
type TokenIssuer struct {
	secret []byte
	issuer string
}

func NewTokenIssuer(cfg *config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// Claims is the platform token payload. AgencyID is set only for agency
// accounts; its presence is what routes a caller onto the agency channel.
type Claims struct {
	Email       string  `json:"email"`
	DisplayName string  `json:"name"`
	Role        string  `json:"role"`
	AgencyID    *string `json:"agencyId,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken mints a token for a user
func (t *TokenIssuer) IssueToken(user *domain.User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if user.AgencyID != nil {
		id := user.AgencyID.String()
		claims.AgencyID = &id
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a token and returns the user context
func (t *TokenIssuer) ValidateToken(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userCtx := &UserContext{
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
		Role:        domain.UserRoleType(claims.Role),
	}

	if claims.Subject != "" {
		if uid, err := uuid.Parse(claims.Subject); err == nil {
			userCtx.UserID = uid
		}
	}
	if userCtx.UserID == uuid.Nil && userCtx.Email != "" {
		userCtx.UserID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(userCtx.Email))
	}

	if claims.AgencyID != nil {
		if aid, err := uuid.Parse(*claims.AgencyID); err == nil {
			userCtx.AgencyID = &aid
		} else {
			return nil, fmt.Errorf("%w: malformed agency id", ErrInvalidToken)
		}
	}

	return userCtx, nil
}
