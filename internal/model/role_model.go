package model

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// Role is a named capability. The set is open: any well-formed name can be
// created on demand, but the constants below are reserved by the application.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

var roleNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]{1,49}$`)

// ParseRole normalizes and validates a role name.
func ParseRole(name string) (Role, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !roleNameRegex.MatchString(n) {
		return "", errors.New("invalid role name")
	}
	return Role(n), nil
}

// Reserved reports whether the role is one of the built-in roles.
func (r Role) Reserved() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleUser:
		return true
	default:
		return false
	}
}

// Guarded reports whether an identity may not remove this role from itself.
func (r Role) Guarded() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleEditor, RoleUser:
		return false
	default:
		return false
	}
}

// RoleSet is a sorted, duplicate-free list of roles.
type RoleSet []Role

func NewRoleSet(roles ...Role) RoleSet {
	seen := make(map[Role]struct{}, len(roles))
	out := make(RoleSet, 0, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RoleSetFromNames builds a set from raw names, rejecting malformed ones.
func RoleSetFromNames(names []string) (RoleSet, error) {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return NewRoleSet(roles...), nil
}

func (s RoleSet) Has(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

func (s RoleSet) Names() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}
