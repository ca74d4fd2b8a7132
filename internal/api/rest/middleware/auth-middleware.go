package middleware

import (
	"strings"

	"github.com/campusbridge/auth_service/internal/domain"
	"github.com/campusbridge/auth_service/internal/helper"
	"github.com/campusbridge/auth_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

const authContextKey = "authctx"

// AuthContext returns the context composed by the middlewares; anonymous when
// no middleware ran or the optional variant found no valid token.
func AuthContext(ctx *fiber.Ctx) helper.AuthContext {
	if ac, ok := ctx.Locals(authContextKey).(helper.AuthContext); ok {
		return ac
	}
	return helper.Anonymous()
}

// RequireAuth resolves the bearer token and fails hard when it is missing,
// invalid, expired, or belongs to a deactivated account.
func RequireAuth(svc services.AuthService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := helper.BearerToken(ctx.Get("Authorization"))
		if token == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "could not validate credentials",
			})
		}

		user, err := svc.ResolveAccessToken(token)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		ctx.Locals(authContextKey, helper.IdentityOf(user))
		return ctx.Next()
	}
}

// OptionalAuth resolves the bearer token when present; a missing or invalid
// token degrades to an anonymous context instead of failing the request.
func OptionalAuth(svc services.AuthService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := helper.BearerToken(ctx.Get("Authorization"))
		if strings.TrimSpace(token) == "" {
			ctx.Locals(authContextKey, helper.Anonymous())
			return ctx.Next()
		}

		user, err := svc.ResolveAccessToken(token)
		if err != nil {
			ctx.Locals(authContextKey, helper.Anonymous())
			return ctx.Next()
		}

		ctx.Locals(authContextKey, helper.IdentityOf(user))
		return ctx.Next()
	}
}

// AdminOnly gates a route behind the admin role. Run after RequireAuth.
func AdminOnly() fiber.Handler {
	return requireAnyRole(domain.RoleAdmin)
}

// InstructorOrAdmin gates a route behind instructor or admin.
func InstructorOrAdmin() fiber.Handler {
	return requireAnyRole(domain.RoleInstructor, domain.RoleAdmin)
}

func requireAnyRole(roles ...domain.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ac := AuthContext(ctx)
		if ac.IsAnonymous() {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		if err := ac.RequireAnyRole(roles...); err != nil {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return ctx.Next()
	}
}
