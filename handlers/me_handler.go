package handlers

import (
	"net/http"

	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/middleware"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/utils"
)

// CurrentUserResponse is the response body for GET /api/me
type CurrentUserResponse struct {
	User   *models.Principal `json:"user"`
	Role   models.Role       `json:"role"`
	Source auth.Source       `json:"source"`
}

// PermissionsResponse is the response body for GET /api/me/permissions
type PermissionsResponse struct {
	Role        models.Role       `json:"role"`
	Permissions []auth.Permission `json:"permissions"`
}

// GetCurrentUser returns the identity resolved by APIAuth.RequireAuth
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if !identity.Authenticated() {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	_ = utils.WriteOK(w, CurrentUserResponse{
		User:   identity.Principal,
		Role:   identity.Role,
		Source: identity.Source,
	})
}

// GetCurrentPermissions lists what the current role is allowed to do
func GetCurrentPermissions(w http.ResponseWriter, r *http.Request) {
	role := middleware.RoleFromContext(r.Context())
	if role == models.RoleGuest {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	_ = utils.WriteOK(w, PermissionsResponse{
		Role:        role,
		Permissions: auth.PermissionsFor(role),
	})
}
