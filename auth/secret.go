package auth

import (
	"sync"

	"github.com/upb/orderops/services"
	"go.uber.org/zap"
)

// FallbackSecret signs sessions when no secret is configured. It is public
// knowledge, so any deployment running on it accepts forged tokens.
const FallbackSecret = "insecure-development-secret-change-me"

// SecretProvider supplies the session signing secret. It is built once at
// startup and never changes afterwards.
type SecretProvider struct {
	secret   string
	fallback bool
	logger   *zap.Logger
	warnOnce sync.Once
}

// NewSecretProvider returns a provider for the configured secret, or for
// FallbackSecret when configured is empty.
func NewSecretProvider(configured string, logger *zap.Logger) *SecretProvider {
	if configured == "" {
		return &SecretProvider{secret: FallbackSecret, fallback: true, logger: logger}
	}
	return &SecretProvider{secret: configured, logger: logger}
}

// Secret returns the signing secret. The first call on a fallback provider logs a warning.
func (p *SecretProvider) Secret() string {
	if p.fallback {
		p.warnOnce.Do(func() {
			p.logger.Warn("session secret not configured, signing with the development fallback",
				zap.String("error_type", string(services.ErrorTypeConfigurationFallback)),
				zap.String("hint", "set AUTH_SECRET"),
			)
		})
	}
	return p.secret
}

// IsFallback reports whether the provider is running on FallbackSecret
func (p *SecretProvider) IsFallback() bool {
	return p.fallback
}

func (p *SecretProvider) key() []byte {
	return []byte(p.Secret())
}
