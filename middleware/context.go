package middleware

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/models"
)

// Context key type to avoid collisions
type contextKey string

// IdentityKey is the context key for the resolved session identity
const IdentityKey contextKey = "identity"

// GetRequestIDFromContext returns the id chi's RequestID middleware assigned, or ""
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// WithIdentity attaches the resolved identity to the context
func WithIdentity(ctx context.Context, identity auth.ResolvedIdentity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFromContext returns the resolved identity, or the guest identity when none is attached
func IdentityFromContext(ctx context.Context) auth.ResolvedIdentity {
	if identity, ok := ctx.Value(IdentityKey).(auth.ResolvedIdentity); ok {
		return identity
	}
	return auth.Guest()
}

// PrincipalFromContext returns the authenticated principal, or nil
func PrincipalFromContext(ctx context.Context) *models.Principal {
	return IdentityFromContext(ctx).Principal
}

// RoleFromContext returns the resolved role, guest when unauthenticated
func RoleFromContext(ctx context.Context) models.Role {
	return IdentityFromContext(ctx).Role
}
