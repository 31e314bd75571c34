package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents the role of an operator within the order/production/shipping workflow
type Role string

const (
	RoleSuperAdmin      Role = "SUPER_ADMIN"
	RoleAdmin           Role = "ADMIN"
	RoleOrderSpecialist Role = "ORDER_SPECIALIST"
	RoleProductionStaff Role = "PRODUCTION_STAFF"
	RoleShippingStaff   Role = "SHIPPING_STAFF"
	RoleReadOnly        Role = "READ_ONLY"

	// RoleGuest means no valid session was found. It is produced by session
	// resolution only and is never persisted or accepted from a token.
	RoleGuest Role = "guest"
)

// PersistedRoles is the closed set of roles a user record or token may carry
var PersistedRoles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleOrderSpecialist,
	RoleProductionStaff,
	RoleShippingStaff,
	RoleReadOnly,
}

// ParseRole returns the persisted role named by s. Guest and unknown values are rejected.
func ParseRole(s string) (Role, bool) {
	for _, r := range PersistedRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// IsPersisted reports whether r belongs to the persisted role set
func (r Role) IsPersisted() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Principal is the identity of an authenticated actor as exposed to handlers and clients
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Image string `json:"image,omitempty"`
}

// User represents an operator account in the credential store
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Image        string    `json:"image,omitempty" db:"image"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active User instance with a normalized email
func NewUser(email, name, passwordHash string, role Role) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Principal returns the session identity for the user, without the password hash
func (u *User) Principal() Principal {
	return Principal{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Image: u.Image,
	}
}

// NormalizeEmail lowercases and trims an email address for lookup and storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
