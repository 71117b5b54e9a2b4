package domain

import "fmt"

// Role is a semantic field the analysis needs, independent of the column
// name a particular source uses for it.
type Role string

const (
	RoleTime      Role = "time"
	RoleMagnitude Role = "magnitude"
	RoleRegion    Role = "region"
	RoleLatitude  Role = "latitude"
	RoleLongitude Role = "longitude"
)

// NoColumn is the "none" choice for optional roles.
const NoColumn = "none"

// Roles lists every role in presentation order.
var Roles = []Role{RoleTime, RoleMagnitude, RoleRegion, RoleLatitude, RoleLongitude}

// Optional reports whether the role may be left unmapped.
func (r Role) Optional() bool {
	return r == RoleLatitude || r == RoleLongitude
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// RoleMapping maps each role to a column name or NoColumn. A missing key in a
// classifier result means "no match".
type RoleMapping map[Role]string

// Column returns the column mapped to r and whether it is set.
func (m RoleMapping) Column(r Role) (string, bool) {
	c, ok := m[r]
	if !ok || c == "" || c == NoColumn {
		return "", false
	}
	return c, true
}
