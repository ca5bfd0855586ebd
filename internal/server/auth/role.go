package auth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/coursehub/internal/common"
)

// Role is a granted authority as it appears on the wire, e.g. "ROLE_ADMIN".
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

const rolePrefix = "ROLE_"

// NormalizeRole upper-cases s and adds the ROLE_ prefix when missing, so
// "admin", "ADMIN" and "ROLE_ADMIN" all name the same authority.
func NormalizeRole(s string) Role {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, rolePrefix) {
		s = rolePrefix + s
	}
	return Role(s)
}

// ParseRole is NormalizeRole restricted to the roles the system knows about.
func ParseRole(s string) (Role, error) {
	r := NormalizeRole(s)
	switch r {
	case RoleUser, RoleAdmin:
		return r, nil
	}
	return "", common.NewError(common.KindUserRoleNotExist, s)
}

// Name returns the role without its prefix ("ADMIN").
func (r Role) Name() string { return strings.TrimPrefix(string(r), rolePrefix) }

// Roles is the "role" claim. It decodes from either a single string or a
// list of strings and encodes a single role as a plain string.
type Roles []string

func (r Roles) MarshalJSON() ([]byte, error) {
	if len(r) == 1 {
		return json.Marshal(r[0])
	}
	return json.Marshal([]string(r))
}

func (r *Roles) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*r = Roles{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("role claim must be a string or a list of strings: %w", err)
	}
	*r = Roles(list)
	return nil
}

// Authorities returns the normalized, de-duplicated authorities in claim order.
func (r Roles) Authorities() []Role {
	seen := make(map[Role]struct{}, len(r))
	out := make([]Role, 0, len(r))
	for _, s := range r {
		if strings.TrimSpace(s) == "" {
			continue
		}
		role := NormalizeRole(s)
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}
