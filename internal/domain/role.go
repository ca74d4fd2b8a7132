package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of platform roles. Anything outside the three
// constants is rejected at the boundary so invalid roles never reach the store.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleUser       Role = "user"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleInstructor:
		return RoleInstructor, nil
	case RoleUser, "":
		return RoleUser, nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

func (r Role) String() string {
	return string(r)
}
