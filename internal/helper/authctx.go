package helper

import (
	"github.com/campusbridge/auth_service/internal/apperr"
	"github.com/campusbridge/auth_service/internal/domain"
)

// AuthContext is the resolved caller identity threaded through service calls.
// The zero value is anonymous; entry boundaries compose it once per request.
type AuthContext struct {
	user *domain.User
}

func Anonymous() AuthContext {
	return AuthContext{}
}

func IdentityOf(user *domain.User) AuthContext {
	return AuthContext{user: user}
}

func (a AuthContext) IsAnonymous() bool {
	return a.user == nil
}

// User returns the authenticated user, or nil for an anonymous context.
func (a AuthContext) User() *domain.User {
	return a.user
}

func (a AuthContext) UserID() string {
	if a.user == nil {
		return ""
	}
	return a.user.ID
}

// RequireRole allows only an exact role match.
func (a AuthContext) RequireRole(role domain.Role) error {
	if a.user == nil {
		return apperr.Authentication(apperr.ErrUserNotFound)
	}
	if a.user.Role != role {
		return apperr.Authorization(role.String())
	}
	return nil
}

// RequireAnyRole allows any of the given roles.
func (a AuthContext) RequireAnyRole(roles ...domain.Role) error {
	if a.user == nil {
		return apperr.Authentication(apperr.ErrUserNotFound)
	}
	for _, r := range roles {
		if a.user.Role == r {
			return nil
		}
	}
	required := make([]string, 0, len(roles))
	for _, r := range roles {
		required = append(required, r.String())
	}
	return apperr.Authorization(required...)
}

// RequireSelfOrRole allows the resource owner or any holder of role.
func (a AuthContext) RequireSelfOrRole(ownerID string, role domain.Role) error {
	if a.user == nil {
		return apperr.Authentication(apperr.ErrUserNotFound)
	}
	if a.user.ID == ownerID {
		return nil
	}
	return a.RequireRole(role)
}
