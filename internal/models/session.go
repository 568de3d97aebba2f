package models

type Role string

const (
	RoleCommercial Role = "commercial"
	RoleApprover   Role = "commercial-approver"
	RoleShopOps    Role = "shop-ops"
	RoleFinance    Role = "finance"
)

// Roles lists every acting party the workflow recognises.
var Roles = []Role{RoleCommercial, RoleApprover, RoleShopOps, RoleFinance}

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	for _, known := range Roles {
		if known == r {
			return true
		}
	}
	return false
}

// Session is the explicit acting context passed into every operation:
// who is acting and in which role. It replaces any ambient notion of a
// "logged in" user so that services stay testable in isolation.
type Session struct {
	User string `json:"user"`
	Role Role   `json:"role"`
}
