package security

import domain "github.com/gabzlaundry/gab/internal/entity"

// Permission names carried in token claims and checked by the authz
// middleware.
const (
	PermOrdersRead    = "orders.read"
	PermOrdersWrite   = "orders.write"
	PermOrdersPay     = "orders.pay"
	PermOrdersManage  = "orders.manage"
	PermServicesWrite = "services.write"
	PermStaffWrite    = "staff.write"
	PermDashboardRead = "dashboard.read"
)

var rolePerms = map[domain.Role][]string{
	domain.RoleCustomer: {PermOrdersRead, PermOrdersWrite, PermOrdersPay},
	domain.RoleStaff:    {PermOrdersRead, PermOrdersManage, PermDashboardRead},
	domain.RoleOwner: {
		PermOrdersRead, PermOrdersWrite, PermOrdersPay, PermOrdersManage,
		PermServicesWrite, PermStaffWrite, PermDashboardRead,
	},
}

// PermissionsFor returns the permission set embedded in tokens for a role.
func PermissionsFor(role domain.Role) []string {
	perms := rolePerms[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
