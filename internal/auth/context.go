package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Role        domain.UserRoleType
	AgencyID    *uuid.UUID
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// Channel derives the sales channel from the caller's identity. Staff and
// admins trade on the internal channel, agency accounts on the agency
// channel. Everything else, including unauthenticated public traffic, is
// retail.
func (u *UserContext) Channel() domain.Channel {
	if u == nil {
		return domain.ChannelRetail
	}
	switch u.Role {
	case domain.RoleAdmin, domain.RoleStaff:
		return domain.ChannelInternal
	case domain.RoleAgencyUser:
		if u.AgencyID != nil {
			return domain.ChannelAgency
		}
	}
	return domain.ChannelRetail
}

// ChannelFromContext resolves the channel for a request, defaulting to
// retail when no user context is present.
func ChannelFromContext(ctx context.Context) domain.Channel {
	user, ok := FromContext(ctx)
	if !ok {
		return domain.ChannelRetail
	}
	return user.Channel()
}

// IsStaff reports whether the user is internal staff or admin
func (u *UserContext) IsStaff() bool {
	return u.Role == domain.RoleAdmin || u.Role == domain.RoleStaff
}

// IsAdmin reports whether the user is a platform admin
func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}
