package handlers

import (
	"time"

	"github.com/campusbridge/auth_service/internal/api/rest/middleware"
	"github.com/campusbridge/auth_service/internal/domain"
	"github.com/campusbridge/auth_service/internal/dto"
	"github.com/campusbridge/auth_service/internal/helper/utils"
	"github.com/campusbridge/auth_service/internal/repository"
	"github.com/campusbridge/auth_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	svc services.AuthService
}

func NewUserHandler(svc services.AuthService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	users := app.Group("/api/users", middleware.RequireAuth(h.svc))

	users.Get("/", middleware.AdminOnly(), h.ListUsers)
	users.Post("/", middleware.AdminOnly(), h.CreateUserByAdmin)

	users.Get("/:userID", h.GetUser)
	users.Put("/:userID", h.UpdateUser)
	users.Patch("/:userID/deactivate", middleware.AdminOnly(), h.DeactivateUser)
	users.Patch("/:userID/verify-email", middleware.AdminOnly(), h.VerifyUserEmail)
	users.Delete("/:userID", middleware.AdminOnly(), h.DeleteUser)
}

func (h *UserHandler) ListUsers(ctx *fiber.Ctx) error {
	var query dto.ListUsersQuery
	if err := ctx.QueryParser(&query); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid query parameters")
	}

	filter := repository.UserFilter{
		Skip:     query.Skip,
		Limit:    query.Limit,
		IsActive: query.IsActive,
	}
	if query.Role != nil {
		role, err := domain.ParseRole(*query.Role)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
		}
		filter.Role = &role
	}
	if query.Search != nil {
		filter.Search = *query.Search
	}

	list, err := h.svc.ListUsers(filter)
	if err != nil {
		return respondError(ctx, err)
	}

	out := make([]dto.UserResponse, 0, len(list))
	for i := range list {
		out = append(out, UserToResponse(&list[i]))
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, out)
}

func (h *UserHandler) GetUser(ctx *fiber.Ctx) error {
	userID := ctx.Params("userID")

	// A user may read their own record; others need admin.
	if err := middleware.AuthContext(ctx).RequireSelfOrRole(userID, domain.RoleAdmin); err != nil {
		return respondError(ctx, err)
	}

	user, err := h.svc.GetUser(userID)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, UserToResponse(user))
}

func (h *UserHandler) UpdateUser(ctx *fiber.Ctx) error {
	userID := ctx.Params("userID")

	ac := middleware.AuthContext(ctx)
	if err := ac.RequireSelfOrRole(userID, domain.RoleAdmin); err != nil {
		return respondError(ctx, err)
	}

	var requestBody dto.UpdateUserRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	// Only admins may change role or active state.
	if requestBody.Role != nil || requestBody.IsActive != nil {
		if err := ac.RequireRole(domain.RoleAdmin); err != nil {
			return respondError(ctx, err)
		}
	}

	user, err := h.svc.UpdateUser(userID, requestBody)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, UserToResponse(user))
}

func (h *UserHandler) DeactivateUser(ctx *fiber.Ctx) error {
	user, err := h.svc.DeactivateUser(ctx.Params("userID"))
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, UserToResponse(user))
}

func (h *UserHandler) VerifyUserEmail(ctx *fiber.Ctx) error {
	user, err := h.svc.VerifyUserEmail(ctx.Params("userID"))
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, UserToResponse(user))
}

func (h *UserHandler) DeleteUser(ctx *fiber.Ctx) error {
	if err := h.svc.DeleteUser(ctx.Params("userID")); err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "user deleted")
}

func (h *UserHandler) CreateUserByAdmin(ctx *fiber.Ctx) error {
	var requestBody dto.CreateUserByAdminRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	user, err := h.svc.CreateUserByAdmin(requestBody)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, UserToResponse(user))
}

func UserToResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FullName:     user.FullName,
		Role:         user.Role.String(),
		IsActive:     user.IsActive,
		IsVerified:   user.IsVerified,
		AuthProvider: user.AuthProvider,
		AvatarURL:    user.AvatarURL,
		Bio:          user.Bio,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    user.UpdatedAt.Format(time.RFC3339),
	}
}
