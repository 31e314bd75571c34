package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
)

var signingMethod = jwt.SigningMethodHS256

// Codec signs and verifies session tokens with the process secret
type Codec struct {
	secrets *SecretProvider
	now     func() time.Time
}

// NewCodec creates a codec bound to the secret provider
func NewCodec(secrets *SecretProvider) *Codec {
	return &Codec{secrets: secrets, now: time.Now}
}

// Encode signs a token for principal in the given claim layout, valid for ttl
func (c *Codec) Encode(p models.Principal, shape Shape, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("session ttl must be positive")
	}
	if p.ID == "" || p.Email == "" || !p.Role.IsPersisted() {
		return "", errors.New("principal is missing id, email or a persisted role")
	}

	now := c.now()
	issued := jwt.NewNumericDate(now)
	expires := jwt.NewNumericDate(now.Add(ttl))

	var claims SessionClaims
	switch shape {
	case ShapeFramework:
		claims = &FrameworkClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   p.ID,
				IssuedAt:  issued,
				ExpiresAt: expires,
			},
			UserID:  p.ID,
			Email:   p.Email,
			Name:    p.Name,
			Role:    string(p.Role),
			Picture: p.Image,
		}
	case ShapeCustom:
		claims = &CustomClaims{
			UserID:    p.ID,
			Email:     p.Email,
			Name:      p.Name,
			Role:      string(p.Role),
			Image:     p.Image,
			IssuedAt:  issued,
			ExpiresAt: expires,
		}
	default:
		return "", fmt.Errorf("unknown claim shape %q", shape)
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.secrets.key())
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Decode verifies token and returns its claims in the expected layout.
// Every failure, whatever its cause, is services.ErrVerificationFailure.
func (c *Codec) Decode(token string, shape Shape) (SessionClaims, error) {
	claims, ok := newClaims(shape)
	if !ok || token == "" {
		return nil, services.ErrVerificationFailure
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secrets.key(), nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, services.ErrVerificationFailure
	}

	if _, err := claims.Principal(); err != nil {
		return nil, services.ErrVerificationFailure
	}
	return claims, nil
}
