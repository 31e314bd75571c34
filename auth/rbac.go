package auth

import (
	"sort"

	"github.com/upb/orderops/models"
)

// Permission is an action on a resource area of the application
type Permission string

const (
	PermOrdersRead      Permission = "orders:read"
	PermOrdersWrite     Permission = "orders:write"
	PermProductionRead  Permission = "production:read"
	PermProductionWrite Permission = "production:write"
	PermShippingRead    Permission = "shipping:read"
	PermShippingWrite   Permission = "shipping:write"
	PermUsersManage     Permission = "users:manage"
	PermReportsRead     Permission = "reports:read"
)

var allPermissions = []Permission{
	PermOrdersRead, PermOrdersWrite,
	PermProductionRead, PermProductionWrite,
	PermShippingRead, PermShippingWrite,
	PermUsersManage, PermReportsRead,
}

var readPermissions = []Permission{PermOrdersRead, PermProductionRead, PermShippingRead, PermReportsRead}

var rolePermissions = map[models.Role][]Permission{
	models.RoleSuperAdmin: allPermissions,
	models.RoleAdmin: {
		PermOrdersRead, PermOrdersWrite,
		PermProductionRead, PermProductionWrite,
		PermShippingRead, PermShippingWrite,
		PermReportsRead,
	},
	models.RoleOrderSpecialist: {
		PermOrdersRead, PermOrdersWrite,
		PermProductionRead, PermShippingRead,
		PermReportsRead,
	},
	models.RoleProductionStaff: {PermOrdersRead, PermProductionRead, PermProductionWrite},
	models.RoleShippingStaff:   {PermOrdersRead, PermShippingRead, PermShippingWrite},
	models.RoleReadOnly:        readPermissions,
}

// HasPermission reports whether role grants perm. Guest and unknown roles grant nothing.
func HasPermission(role models.Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// PermissionsFor returns the sorted permissions granted to role
func PermissionsFor(role models.Role) []Permission {
	granted := append([]Permission(nil), rolePermissions[role]...)
	sort.Slice(granted, func(i, j int) bool { return granted[i] < granted[j] })
	if granted == nil {
		return []Permission{}
	}
	return granted
}
