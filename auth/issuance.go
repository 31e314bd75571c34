package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/orderops/config"
	"github.com/upb/orderops/internal/observability"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
	"go.uber.org/zap"
)

// Source identifies the issuance path a resolved identity came from
type Source string

const (
	SourceFramework Source = "framework"
	SourceCustom    Source = "custom"
	SourceNone      Source = "none"
)

// IssuancePath describes one login flow: which cookie it owns and which
// claim layout it writes. The flows differ only in this configuration.
type IssuancePath struct {
	Source     Source
	CookieName string
	Shape      Shape
}

// FrameworkPath is the standard login flow
func FrameworkPath(cfg config.AuthConfig) IssuancePath {
	return IssuancePath{Source: SourceFramework, CookieName: cfg.FrameworkCookieName, Shape: ShapeFramework}
}

// CustomPath is the parallel custom login flow
func CustomPath(cfg config.AuthConfig) IssuancePath {
	return IssuancePath{Source: SourceCustom, CookieName: cfg.CustomCookieName, Shape: ShapeCustom}
}

// CredentialVerifier checks an email/password pair
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (models.Principal, error)
}

// Issuer runs both login flows over one verifier, one codec and one TTL
type Issuer struct {
	verifier CredentialVerifier
	codec    *Codec
	ttl      time.Duration
	secure   bool
	paths    []IssuancePath
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewIssuer creates an issuer. secure marks cookies Secure and is set in production.
func NewIssuer(verifier CredentialVerifier, codec *Codec, cfg config.AuthConfig, secure bool, metrics *observability.Metrics, logger *zap.Logger) *Issuer {
	return &Issuer{
		verifier: verifier,
		codec:    codec,
		ttl:      cfg.SessionTTL,
		secure:   secure,
		paths:    []IssuancePath{FrameworkPath(cfg), CustomPath(cfg)},
		metrics:  metrics,
		logger:   logger,
	}
}

// Issue verifies the credentials and returns the session cookie for path.
// The only errors are ErrMissingFields, ErrInvalidCredentials and internal failures.
func (i *Issuer) Issue(ctx context.Context, path IssuancePath, email, password string) (*http.Cookie, models.Principal, error) {
	principal, err := i.verifier.Verify(ctx, email, password)
	if err != nil {
		i.metrics.RecordLogin(string(path.Source), loginOutcome(err))
		return nil, models.Principal{}, err
	}

	token, err := i.codec.Encode(principal, path.Shape, i.ttl)
	if err != nil {
		i.metrics.RecordLogin(string(path.Source), observability.LoginError)
		return nil, models.Principal{}, services.WrapInternal("failed to issue session token", err)
	}

	i.metrics.RecordLogin(string(path.Source), observability.LoginSuccess)
	i.logger.Info("session issued",
		zap.String("source", string(path.Source)),
		zap.String("user_id", principal.ID),
		zap.String("role", string(principal.Role)),
	)
	return i.sessionCookie(path.CookieName, token, int(i.ttl.Seconds())), principal, nil
}

// RejectMalformed counts a login request that never reached verification
func (i *Issuer) RejectMalformed(path IssuancePath) {
	i.metrics.RecordLogin(string(path.Source), observability.LoginMissingFields)
}

// ClearCookies returns deletion cookies for every issuance path
func (i *Issuer) ClearCookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(i.paths))
	for _, p := range i.paths {
		cookies = append(cookies, i.sessionCookie(p.CookieName, "", -1))
	}
	return cookies
}

// TTL returns the session lifetime shared by both paths
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func (i *Issuer) sessionCookie(name, value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}

func loginOutcome(err error) string {
	switch {
	case services.IsInvalidCredentialsError(err):
		return observability.LoginInvalidCredentials
	case services.IsMissingFieldsError(err):
		return observability.LoginMissingFields
	default:
		return observability.LoginError
	}
}
