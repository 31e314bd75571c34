package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/upb/orderops/config"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
	"go.uber.org/zap"
)

const testSecret = "test-secret-with-enough-entropy-0123456789"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Secret:              testSecret,
		SessionTTL:          24 * time.Hour,
		FrameworkCookieName: config.DefaultFrameworkCookieName,
		CustomCookieName:    config.DefaultCustomCookieName,
		LoginPath:           "/login",
		DashboardPath:       "/dashboard",
	}
}

func testCodec(secret string) *Codec {
	return NewCodec(NewSecretProvider(secret, zap.NewNop()))
}

func testPrincipal(role models.Role) models.Principal {
	return models.Principal{
		ID:    "6f1c2a5e-8d7b-4d7e-9a43-0c2b9f1e7a10",
		Name:  "Ana Ruiz",
		Email: "ana@example.com",
		Role:  role,
	}
}

func mustEncode(t *testing.T, c *Codec, p models.Principal, shape Shape) string {
	t.Helper()
	token, err := c.Encode(p, shape, 24*time.Hour)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return token
}

func requestWithCookies(cookies ...*http.Cookie) *http.Request {
	r, _ := http.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

// stubVerifier accepts exactly one email/password pair
type stubVerifier struct {
	email     string
	password  string
	principal models.Principal
	err       error
}

func (s *stubVerifier) Verify(_ context.Context, email, password string) (models.Principal, error) {
	if s.err != nil {
		return models.Principal{}, s.err
	}
	if email == "" || password == "" {
		return models.Principal{}, services.ErrMissingFields
	}
	if models.NormalizeEmail(email) != s.email || password != s.password {
		return models.Principal{}, services.ErrInvalidCredentials
	}
	return s.principal, nil
}
