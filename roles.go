package spaces

import "strings"

// Role is the canonical account role. It is a closed enumeration: raw role
// strings from tokens, forms, or API payloads are normalized through
// ParseRole at the trust boundary and never propagated as-is.
type Role string

const (
	// RoleClient can browse spaces and manage their own bookings.
	RoleClient Role = "CLIENT"
	// RoleSpaceOwner can additionally create and manage rentable spaces.
	RoleSpaceOwner Role = "SPACE_OWNER"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleSpaceOwner:
		return true
	default:
		return false
	}
}

// CanManageSpaces checks if this role may create, edit, and delete spaces
func (r Role) CanManageSpaces() bool {
	return r == RoleSpaceOwner
}

// AllRoles returns all predefined roles
func AllRoles() []Role {
	return []Role{
		RoleClient,
		RoleSpaceOwner,
	}
}

// ParseRole safely parses a raw role string into a Role. It accepts every
// spelling observed across the platform ("client", "CLIENT", "owner",
// "space_owner", "SPACE_OWNER") and reports false for anything else.
func ParseRole(raw string) (Role, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "_")

	switch normalized {
	case string(RoleClient):
		return RoleClient, true
	case string(RoleSpaceOwner), "OWNER", "SPACEOWNER":
		return RoleSpaceOwner, true
	default:
		return "", false
	}
}

// NormalizeRole clamps a raw role string to the closed enumeration,
// defaulting to RoleClient when the input is absent or unrecognized.
func NormalizeRole(raw string) Role {
	if role, ok := ParseRole(raw); ok {
		return role
	}
	return RoleClient
}
