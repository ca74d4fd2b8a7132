package handlers

import (
	"errors"

	"github.com/campusbridge/auth_service/internal/api/rest/middleware"
	"github.com/campusbridge/auth_service/internal/apperr"
	"github.com/campusbridge/auth_service/internal/dto"
	"github.com/campusbridge/auth_service/internal/helper/utils"
	"github.com/campusbridge/auth_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/logout", h.Logout)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)
	auth.Post("/google", h.GoogleLogin)

	auth.Get("/me", middleware.RequireAuth(h.svc), h.Me)

	// Public endpoint with enhanced behavior for logged-in callers; an
	// invalid token degrades to anonymous instead of failing.
	auth.Get("/session", middleware.OptionalAuth(h.svc), h.Session)
}

func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	user, err := h.svc.Register(requestBody)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, UserToResponse(user))
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.LoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "identifier and password are required")
	}

	pair, err := h.svc.Login(requestBody.Identifier, requestBody.Password)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, pair)
}

func (h *AuthHandler) Refresh(ctx *fiber.Ctx) error {
	var requestBody dto.RefreshRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.RefreshToken == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "refresh_token is required")
	}

	pair, err := h.svc.Refresh(requestBody.RefreshToken)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, pair)
}

// Logout acknowledges only. Tokens are stateless; the client discards them.
func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "logged out")
}

func (h *AuthHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide a valid email")
	}

	if _, err := h.svc.RequestPasswordReset(requestBody.Email); err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK,
		"if the email exists, a password reset link has been sent")
}

func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ResetPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Token == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.ConfirmPasswordReset(requestBody.Token, requestBody.NewPassword); err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "password reset successfully")
}

func (h *AuthHandler) GoogleLogin(ctx *fiber.Ctx) error {
	var requestBody dto.GoogleLoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.IDToken == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "id_token is required")
	}

	pair, err := h.svc.AuthenticateGoogle(ctx.Context(), requestBody.IDToken)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, pair)
}

func (h *AuthHandler) Session(ctx *fiber.Ctx) error {
	ac := middleware.AuthContext(ctx)
	if ac.IsAnonymous() {
		return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"authenticated": false})
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"authenticated": true,
		"user":          UserToResponse(ac.User()),
	})
}

func (h *AuthHandler) Me(ctx *fiber.Ctx) error {
	ac := middleware.AuthContext(ctx)
	if ac.IsAnonymous() {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, UserToResponse(ac.User()))
}

// respondError maps the error taxonomy onto HTTP statuses.
func respondError(ctx *fiber.Ctx, err error) error {
	var ve *apperr.ValidationError
	var ce *apperr.ConflictError
	var aze *apperr.AuthorizationError

	switch {
	case errors.As(err, &ve):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &ce):
		return utils.ResponseError(ctx, fiber.StatusConflict, err.Error())
	case errors.As(err, &aze):
		return utils.ResponseError(ctx, fiber.StatusForbidden, err.Error())
	case apperr.IsAuthFailure(err):
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrUserNotFound):
		// Bare not-found from the management paths; session paths wrap it
		// into an AuthenticationError and answer 401 above.
		return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
	}
	return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
}
