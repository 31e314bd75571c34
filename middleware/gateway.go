package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/config"
	"github.com/upb/orderops/internal/gateway"
	"github.com/upb/orderops/internal/observability"
	"go.uber.org/zap"
)

// SessionResolver resolves the identity carried by a request's cookies
type SessionResolver interface {
	Resolve(r *http.Request) auth.ResolvedIdentity
}

// Gateway applies route classification and the redirect policy to every request
type Gateway struct {
	classifier    *gateway.Classifier
	resolver      SessionResolver
	loginPath     string
	dashboardPath string
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NewGateway creates the gateway middleware
func NewGateway(classifier *gateway.Classifier, resolver SessionResolver, cfg config.AuthConfig, metrics *observability.Metrics, logger *zap.Logger) *Gateway {
	return &Gateway{
		classifier:    classifier,
		resolver:      resolver,
		loginPath:     cfg.LoginPath,
		dashboardPath: cfg.DashboardPath,
		metrics:       metrics,
		logger:        logger,
	}
}

// Handler wraps next. Assets and API routes pass untouched without resolving
// the session; everything else is resolved, then passed or redirected with 302.
func (g *Gateway) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Classify what the router will match, or an encoded slash could
		// look like /api here and reach a page route there
		classification := g.classifier.Classify(routedPath(r))
		if classification.Bypassed() {
			g.metrics.RecordDecision(classification.String(), gateway.PassThrough.String())
			next.ServeHTTP(w, r)
			return
		}

		identity := g.resolve(r)
		action := gateway.Decide(classification, identity.Authenticated())
		g.metrics.RecordDecision(classification.String(), action.String())

		switch action {
		case gateway.RedirectToLogin:
			g.logger.Debug("redirecting to login",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("path", r.URL.Path))
			http.Redirect(w, r, g.loginPath, http.StatusFound)
		case gateway.RedirectToDashboard:
			http.Redirect(w, r, g.dashboardPath, http.StatusFound)
		default:
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		}
	})
}

// resolve never lets a resolver fault escape; a panic means no identity
func (g *Gateway) resolve(r *http.Request) (identity auth.ResolvedIdentity) {
	defer func() {
		if rec := recover(); rec != nil {
			g.logger.Error("session resolution panicked", zap.Any("panic", rec))
			identity = auth.Guest()
		}
	}()
	return g.resolver.Resolve(r)
}

// routedPath returns the path chi matches routes against
func routedPath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		return rctx.RoutePath
	}
	if r.URL.RawPath != "" {
		return r.URL.RawPath
	}
	return r.URL.Path
}
