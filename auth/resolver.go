package auth

import (
	"net/http"

	"github.com/upb/orderops/internal/observability"
	"github.com/upb/orderops/models"
	"go.uber.org/zap"
)

// ResolvedIdentity is the single identity derived from the session cookies
type ResolvedIdentity struct {
	Principal *models.Principal
	Role      models.Role
	Source    Source
}

// Guest is the identity of a request without a valid session
func Guest() ResolvedIdentity {
	return ResolvedIdentity{Role: models.RoleGuest, Source: SourceNone}
}

// Authenticated reports whether the identity carries a real role
func (id ResolvedIdentity) Authenticated() bool {
	return id.Principal != nil && id.Role != models.RoleGuest
}

// TokenDecoder verifies a session token in a given claim layout
type TokenDecoder interface {
	Decode(token string, shape Shape) (SessionClaims, error)
}

// Resolver turns request cookies into a ResolvedIdentity. It holds no mutable
// state, so one instance serves all requests concurrently.
type Resolver struct {
	decoder TokenDecoder
	// paths in priority order; the first valid cookie wins
	paths   []IssuancePath
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewResolver creates a resolver. primary takes precedence over secondary when both cookies are valid.
func NewResolver(decoder TokenDecoder, primary, secondary IssuancePath, metrics *observability.Metrics, logger *zap.Logger) *Resolver {
	return &Resolver{
		decoder: decoder,
		paths:   []IssuancePath{primary, secondary},
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve returns the identity carried by r's cookies, or Guest.
// It never fails: unreadable, invalid or panicking cookies count as absent.
func (res *Resolver) Resolve(r *http.Request) ResolvedIdentity {
	for _, path := range res.paths {
		if p := res.decodeCookie(r, path); p != nil {
			res.metrics.RecordResolution(string(path.Source))
			return ResolvedIdentity{Principal: p, Role: p.Role, Source: path.Source}
		}
	}
	res.metrics.RecordResolution(string(SourceNone))
	return Guest()
}

func (res *Resolver) decodeCookie(r *http.Request, path IssuancePath) (principal *models.Principal) {
	defer func() {
		if rec := recover(); rec != nil {
			res.metrics.RecordDecodePanic()
			res.logger.Error("session decode panicked",
				zap.String("cookie", path.CookieName),
				zap.Any("panic", rec),
			)
			principal = nil
		}
	}()

	cookie, err := r.Cookie(path.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := res.decoder.Decode(cookie.Value, path.Shape)
	if err != nil || claims == nil {
		res.logger.Debug("session cookie rejected", zap.String("cookie", path.CookieName))
		return nil
	}

	p, err := claims.Principal()
	if err != nil {
		return nil
	}
	return &p
}
