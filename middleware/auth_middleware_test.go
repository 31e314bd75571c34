package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/models"
	"go.uber.org/zap"
)

func identityFor(role models.Role) auth.ResolvedIdentity {
	return auth.ResolvedIdentity{
		Principal: &models.Principal{ID: "u-1", Email: "u@example.com", Role: role},
		Role:      role,
		Source:    auth.SourceFramework,
	}
}

func TestRequireAuth(t *testing.T) {
	logger := zap.NewNop()

	t.Run("authenticated request gets identity in context", func(t *testing.T) {
		resolver := new(MockResolver)
		resolver.On("Resolve", mock.Anything).Return(identityFor(models.RoleAdmin))
		m := NewAPIAuth(resolver, logger)

		var seen auth.ResolvedIdentity
		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.RoleAdmin, seen.Role)
		resolver.AssertExpectations(t)
	})

	t.Run("guest gets 401", func(t *testing.T) {
		resolver := new(MockResolver)
		resolver.On("Resolve", mock.Anything).Return(auth.Guest())
		m := NewAPIAuth(resolver, logger)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "unauthorized")
	})

	t.Run("real cookies through the real resolver", func(t *testing.T) {
		k := newSessionKit()
		m := NewAPIAuth(k.resolver, logger)
		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, models.RoleShippingStaff, RoleFromContext(r.Context()))
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(k.cookie(t, "custom-auth", auth.ShapeCustom, models.RoleShippingStaff, time.Hour))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	m := NewAPIAuth(new(MockResolver), zap.NewNop())
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := m.RequirePermission(auth.PermProductionWrite)(ok)

	tests := []struct {
		role models.Role
		want int
	}{
		{models.RoleProductionStaff, http.StatusOK},
		{models.RoleAdmin, http.StatusOK},
		{models.RoleShippingStaff, http.StatusForbidden},
		{models.RoleReadOnly, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/production", nil)
			req = req.WithContext(WithIdentity(req.Context(), identityFor(tt.role)))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequirePermission_WithoutIdentity(t *testing.T) {
	m := NewAPIAuth(new(MockResolver), zap.NewNop())
	handler := m.RequirePermission(auth.PermOrdersRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
