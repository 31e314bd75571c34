package middleware

import (
	"net/http"

	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/utils"
	"go.uber.org/zap"
)

// APIAuth authorizes API routes. The gateway does not run for /api, so API
// handlers that need a session go through RequireAuth.
type APIAuth struct {
	resolver SessionResolver
	logger   *zap.Logger
}

// NewAPIAuth creates the API authorization middleware
func NewAPIAuth(resolver SessionResolver, logger *zap.Logger) *APIAuth {
	return &APIAuth{
		resolver: resolver,
		logger:   logger,
	}
}

// RequireAuth resolves the session and rejects guests with 401
func (m *APIAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		identity := m.resolver.Resolve(r)
		if !identity.Authenticated() {
			m.logger.Debug("unauthenticated API request",
				zap.String("request_id", requestID),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("user_id", identity.Principal.ID),
			zap.String("source", string(identity.Source)))

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

// RequirePermission allows roles granted perm. Use after RequireAuth.
func (m *APIAuth) RequirePermission(perm auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity := IdentityFromContext(ctx)
			if !identity.Authenticated() {
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			if !auth.HasPermission(identity.Role, perm) {
				m.logger.Warn("permission denied",
					zap.String("request_id", GetRequestIDFromContext(ctx)),
					zap.String("role", string(identity.Role)),
					zap.String("permission", string(perm)))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
