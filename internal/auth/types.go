package auth

import (
	"strings"
	"time"
)

// Role is one of a closed set of access levels.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleBasic Role = "basic"
)

// ParseRole maps a raw string onto the closed role set.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleBasic:
		return RoleBasic, true
	}
	return "", false
}

// NormalizeRoles lower-cases, deduplicates and drops unknown roles,
// preserving first-seen order.
func NormalizeRoles(raw []string) []Role {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[Role]struct{}, len(raw))
	var out []Role
	for _, r := range raw {
		role, ok := ParseRole(r)
		if !ok {
			continue
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}

// User is a stored account record. Email is the stable lookup key used in
// token payloads; ID is immutable once created.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the verified identity acting on a request. It carries token
// claims only; resolving the live account record is a separate step.
type Principal struct {
	Email string
	Roles []Role
}

// HasRole reports membership in the principal's role set.
func (p Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

func roleStrings(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}
