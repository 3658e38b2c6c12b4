package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role is the directory role of a user. Exactly one role is stored per user;
// host/promoter flags are derived from it.
type Role string

const (
	RoleKJ       Role = "KJ"
	RoleKS       Role = "KS"
	RolePromoter Role = "Promoter"
)

// Stringer – convenient for fmt / logs
func (r Role) String() string { return string(r) }

// IsHost reports whether the role may own events.
func (r Role) IsHost() bool { return r == RoleKJ }

// IsPromoter reports whether the role is the discovery/marketing role.
func (r Role) IsPromoter() bool { return r == RolePromoter }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleKJ, RoleKS, RolePromoter:
		return true
	}
	return false
}

// ParseRole converts user input into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// RolePermissions is the permission set granted to a role.
type RolePermissions struct {
	CanCreateEvents      bool `json:"canCreateEvents"`
	CanManageEvents      bool `json:"canManageEvents"`
	CanViewAllEvents     bool `json:"canViewAllEvents"`
	CanRegisterForEvents bool `json:"canRegisterForEvents"`
	CanPromoteEvents     bool `json:"canPromoteEvents"`
	CanManageProfile     bool `json:"canManageProfile"`
	CanAccessDashboard   bool `json:"canAccessDashboard"`
}

// Permissions returns the permission set for the role. Unknown roles get nothing.
func (r Role) Permissions() RolePermissions {
	base := RolePermissions{
		CanViewAllEvents:   true,
		CanManageProfile:   true,
		CanAccessDashboard: true,
	}
	switch r {
	case RoleKJ:
		base.CanCreateEvents = true
		base.CanManageEvents = true
		return base
	case RoleKS:
		base.CanRegisterForEvents = true
		return base
	case RolePromoter:
		base.CanPromoteEvents = true
		return base
	}
	return RolePermissions{}
}

/* ---------- DB adapters so gorm / database/sql scans and values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	s, err := scanString("Role", src)
	if err != nil {
		return err
	}
	*r = Role(s)
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }

// scanString is shared by the enum scanners in this package.
func scanString(typeName string, src interface{}) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%s: cannot scan type %T", typeName, src)
	}
}
