package enums

import "fmt"

// MemberRole represents a workshop-level permissions role.
type MemberRole string

const (
	MemberRoleAdmin        MemberRole = "admin"
	MemberRoleManager      MemberRole = "manager"
	MemberRoleTechnician   MemberRole = "technician"
	MemberRoleReceptionist MemberRole = "receptionist"
	MemberRoleClient       MemberRole = "client"
)

var validMemberRoles = []MemberRole{
	MemberRoleAdmin,
	MemberRoleManager,
	MemberRoleTechnician,
	MemberRoleReceptionist,
	MemberRoleClient,
}

// String implements fmt.Stringer.
func (m MemberRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberRole.
func (m MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role may mutate orders and inventory.
func (m MemberRole) IsStaff() bool {
	return m.IsValid() && m != MemberRoleClient
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
