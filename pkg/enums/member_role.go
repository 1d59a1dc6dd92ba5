package enums

import "fmt"

// MemberRole captures the roles the auth provider can resolve a caller to.
type MemberRole string

const (
	MemberRoleAdmin    MemberRole = "admin"
	MemberRoleManager  MemberRole = "manager"
	MemberRoleOperator MemberRole = "operator"
	MemberRoleViewer   MemberRole = "viewer"
)

var validMemberRoles = []MemberRole{
	MemberRoleAdmin,
	MemberRoleManager,
	MemberRoleOperator,
	MemberRoleViewer,
}

// IsValid reports whether the value matches the canonical member role enum.
func (r MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseMemberRole converts raw input into MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
