package domain

import (
	"fmt"
	"slices"
	"strings"
)

type Role string

const (
	RoleUser      Role = "ROLE_USER"
	RoleModerator Role = "ROLE_MODERATOR"
	RoleAdmin     Role = "ROLE_ADMIN"
)

// DefaultRole is granted at registration.
const DefaultRole = RoleUser

// rank orders roles for display; higher wins.
var rank = map[Role]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// ParseRole accepts the role name with or without the ROLE_ prefix, in any
// case.
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "ROLE_") {
		s = "ROLE_" + s
	}
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// HighestRole picks the most privileged of roles, ROLE_USER when empty.
func HighestRole(roles []Role) Role {
	best := RoleUser
	for _, r := range roles {
		if rank[r] > rank[best] {
			best = r
		}
	}
	return best
}

// RoleNames returns the names sorted by descending privilege.
func RoleNames(roles []Role) []string {
	sorted := slices.Clone(roles)
	slices.SortStableFunc(sorted, func(a, b Role) int { return rank[b] - rank[a] })

	out := make([]string, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, string(r))
	}
	return slices.Compact(out)
}

// JoinRoles encodes roles as space-delimited storage.
func JoinRoles(roles []Role) string {
	return strings.Join(RoleNames(roles), " ")
}

// SplitRoles decodes space-delimited storage, dropping unknown names.
func SplitRoles(s string) []Role {
	var out []Role
	for _, f := range strings.Fields(s) {
		if r := Role(f); r.Valid() {
			out = append(out, r)
		}
	}
	return out
}
