package middleware

import (
	"context"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/models"
)

func TestIdentityContext(t *testing.T) {
	t.Run("empty context is guest", func(t *testing.T) {
		ctx := context.Background()

		assert.Equal(t, auth.Guest(), IdentityFromContext(ctx))
		assert.Nil(t, PrincipalFromContext(ctx))
		assert.Equal(t, models.RoleGuest, RoleFromContext(ctx))
	})

	t.Run("attached identity", func(t *testing.T) {
		identity := identityFor(models.RoleProductionStaff)
		ctx := WithIdentity(context.Background(), identity)

		assert.Equal(t, identity, IdentityFromContext(ctx))
		assert.Equal(t, "u-1", PrincipalFromContext(ctx).ID)
		assert.Equal(t, models.RoleProductionStaff, RoleFromContext(ctx))
	})
}

func TestRequestIDContext(t *testing.T) {
	t.Run("chi request id", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "chi-456")
		assert.Equal(t, "chi-456", GetRequestIDFromContext(ctx))
	})

	t.Run("missing", func(t *testing.T) {
		assert.Empty(t, GetRequestIDFromContext(context.Background()))
	})
}
