package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
)

// Shape names the claim layout a token was issued with
type Shape string

const (
	// ShapeFramework carries the user id in both "sub" and "id" and the avatar in "picture"
	ShapeFramework Shape = "framework"
	// ShapeCustom carries the user id in "id" only and the avatar in "image"
	ShapeCustom Shape = "custom"
)

// SessionClaims is the closed set of claim layouts the codec understands.
// Every layout maps to the same canonical Principal.
type SessionClaims interface {
	jwt.Claims
	Shape() Shape
	Principal() (models.Principal, error)
	sessionClaims()
}

// FrameworkClaims is the layout written by the standard login flow
type FrameworkClaims struct {
	jwt.RegisteredClaims
	UserID  string `json:"id,omitempty"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Picture string `json:"picture,omitempty"`
}

func (*FrameworkClaims) sessionClaims() {}

// Shape implements SessionClaims
func (*FrameworkClaims) Shape() Shape { return ShapeFramework }

// Principal maps the claims to a Principal. The id comes from "id", falling back to "sub".
func (c *FrameworkClaims) Principal() (models.Principal, error) {
	id := c.UserID
	if id == "" {
		id = c.Subject
	}
	return toPrincipal(id, c.Email, c.Name, c.Role, c.Picture)
}

// CustomClaims is the layout written by the custom login flow
type CustomClaims struct {
	UserID    string           `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Role      string           `json:"role"`
	Image     string           `json:"image,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
}

func (*CustomClaims) sessionClaims() {}

// Shape implements SessionClaims
func (*CustomClaims) Shape() Shape { return ShapeCustom }

// Principal maps the claims to a Principal
func (c *CustomClaims) Principal() (models.Principal, error) {
	return toPrincipal(c.UserID, c.Email, c.Name, c.Role, c.Image)
}

// GetExpirationTime implements jwt.Claims
func (c *CustomClaims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }

// GetIssuedAt implements jwt.Claims
func (c *CustomClaims) GetIssuedAt() (*jwt.NumericDate, error) { return c.IssuedAt, nil }

// GetNotBefore implements jwt.Claims
func (c *CustomClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements jwt.Claims
func (c *CustomClaims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements jwt.Claims
func (c *CustomClaims) GetSubject() (string, error) { return "", nil }

// GetAudience implements jwt.Claims
func (c *CustomClaims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

func newClaims(shape Shape) (SessionClaims, bool) {
	switch shape {
	case ShapeFramework:
		return &FrameworkClaims{}, true
	case ShapeCustom:
		return &CustomClaims{}, true
	default:
		return nil, false
	}
}

// toPrincipal fails closed on anything a valid session could not have produced
func toPrincipal(id, email, name, role, image string) (models.Principal, error) {
	r, ok := models.ParseRole(role)
	if !ok || id == "" || email == "" {
		return models.Principal{}, services.ErrVerificationFailure
	}
	return models.Principal{
		ID:    id,
		Name:  name,
		Email: email,
		Role:  r,
		Image: image,
	}, nil
}
