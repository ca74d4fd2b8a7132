package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusbridge/auth_service/internal/apperr"
	"github.com/campusbridge/auth_service/internal/clients/googleauth"
	"github.com/campusbridge/auth_service/internal/domain"
	"github.com/campusbridge/auth_service/internal/dto"
	"github.com/campusbridge/auth_service/internal/helper"
	"github.com/campusbridge/auth_service/internal/helper/utils"
	"github.com/campusbridge/auth_service/internal/interfaces"
	"github.com/campusbridge/auth_service/internal/repository"
)

type AuthService interface {
	// Sessions
	Register(input dto.RegisterRequest) (*domain.User, error)
	Login(identifier, password string) (*dto.TokenPairResponse, error)
	Refresh(refreshToken string) (*dto.TokenPairResponse, error)
	ResolveAccessToken(token string) (*domain.User, error)

	// Password recovery
	RequestPasswordReset(email string) (string, error)
	ConfirmPasswordReset(token, newPassword string) error

	// Federation
	AuthenticateGoogle(ctx context.Context, idToken string) (*dto.TokenPairResponse, error)

	// User management
	GetUser(userID string) (*domain.User, error)
	ListUsers(filter repository.UserFilter) ([]domain.User, error)
	UpdateUser(userID string, input dto.UpdateUserRequest) (*domain.User, error)
	DeactivateUser(userID string) (*domain.User, error)
	DeleteUser(userID string) error
	VerifyUserEmail(userID string) (*domain.User, error)
	CreateUserByAdmin(input dto.CreateUserByAdminRequest) (*domain.User, error)
}

type authService struct {
	repo     repository.UserRepository
	tokens   helper.TokenService
	google   googleauth.Verifier
	producer interfaces.ProducerHandler
}

func NewAuthService(
	repo repository.UserRepository,
	tokens helper.TokenService,
	google googleauth.Verifier,
	producer interfaces.ProducerHandler,
) AuthService {
	return &authService{
		repo:     repo,
		tokens:   tokens,
		google:   google,
		producer: producer,
	}
}

// SESSIONS

func (s *authService) Register(input dto.RegisterRequest) (*domain.User, error) {
	email := utils.NormalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	username := strings.TrimSpace(input.Username)

	if email == "" || !utils.IsEmail(email) {
		return nil, apperr.Validation("a valid email is required")
	}
	if fullName == "" {
		return nil, apperr.Validation("full_name is required")
	}
	if len(input.Password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}

	hashed, err := helper.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	newUser := &domain.User{
		Email:          email,
		FullName:       fullName,
		HashedPassword: &hashed,
		Role:           role,
		IsActive:       true,
		AuthProvider:   domain.AuthProviderLocal,
	}
	if username != "" {
		newUser.Username = &username
	}

	user, err := s.repo.CreateUser(newUser)
	if err != nil {
		return nil, err
	}

	if s.producer != nil {
		payload := fmt.Sprintf(`{"user_id":"%s","email":"%s"}`, user.ID, user.Email)
		_ = s.producer.PublishMessage([]byte("user.registered"), []byte(payload))
	}

	return user, nil
}

func (s *authService) Login(identifier, password string) (*dto.TokenPairResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperr.Authentication(apperr.ErrInvalidCredentials)
	}

	// Emails are stored lowercased; usernames are case-sensitive, so only
	// normalize when the identifier looks like an email.
	if utils.IsEmail(identifier) {
		identifier = utils.NormalizeEmail(identifier)
	}

	user, err := s.repo.FindUserByEmailOrUsername(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Same failure as a wrong password, so responses do not reveal
		// whether the account exists.
		return nil, apperr.Authentication(apperr.ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, apperr.Authentication(apperr.ErrAccountDeactivated)
	}

	if !helper.VerifyPassword(password, user.HashedPassword) {
		return nil, apperr.Authentication(apperr.ErrInvalidCredentials)
	}

	return s.issueTokenPair(user)
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself stays valid until its own expiry.
func (s *authService) Refresh(refreshToken string) (*dto.TokenPairResponse, error) {
	claims, err := s.tokens.Verify(refreshToken, helper.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveActiveUser(claims.Subject)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// ResolveAccessToken verifies a bearer token and resolves it to an active user.
func (s *authService) ResolveAccessToken(token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token, helper.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return s.resolveActiveUser(claims.Subject)
}

func (s *authService) resolveActiveUser(userID string) (*domain.User, error) {
	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Authentication(apperr.ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, apperr.Authentication(apperr.ErrAccountDeactivated)
	}
	return user, nil
}

func (s *authService) issueTokenPair(user *domain.User) (*dto.TokenPairResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// PASSWORD RECOVERY

// RequestPasswordReset issues a reset token bound to the email. An unknown
// email returns no error and no token, so the caller can answer uniformly.
func (s *authService) RequestPasswordReset(email string) (string, error) {
	email = utils.NormalizeEmail(email)

	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}

	if !user.IsActive {
		return "", apperr.Authentication(apperr.ErrAccountDeactivated)
	}

	token, err := s.tokens.IssuePasswordResetToken(user.Email)
	if err != nil {
		return "", err
	}

	if s.producer != nil {
		payload := fmt.Sprintf(`{"email":"%s","token":"%s"}`, user.Email, token)
		_ = s.producer.PublishMessage([]byte("user.reset_password"), []byte(payload))
	}

	return token, nil
}

func (s *authService) ConfirmPasswordReset(token, newPassword string) error {
	if len(newPassword) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}

	claims, err := s.tokens.Verify(token, helper.TokenTypePasswordReset)
	if err != nil {
		return err
	}

	user, err := s.repo.FindUserByEmail(claims.Subject)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.Authentication(apperr.ErrUserNotFound)
	}
	if !user.IsActive {
		return apperr.Authentication(apperr.ErrAccountDeactivated)
	}

	hashed, err := helper.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.HashedPassword = &hashed
	user.UpdatedAt = time.Now()
	return s.repo.SaveUser(user)
}

// FEDERATION

// AuthenticateGoogle verifies the provider token and maps it onto a
// pre-provisioned account. Self-registration through this path is disallowed.
func (s *authService) AuthenticateGoogle(ctx context.Context, idToken string) (*dto.TokenPairResponse, error) {
	if s.google == nil {
		return nil, errors.New("google verifier is not configured")
	}

	info, err := s.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindUserByEmail(utils.NormalizeEmail(info.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Authentication(apperr.ErrNotRegistered)
	}
	if !user.IsActive {
		return nil, apperr.Authentication(apperr.ErrAccountDeactivated)
	}

	updated := false

	if user.GoogleID == nil {
		gid := info.GoogleID
		user.GoogleID = &gid
		user.AuthProvider = domain.AuthProviderGoogle
		updated = true
	}

	if info.FullName != "" && info.FullName != user.FullName {
		user.FullName = info.FullName
		updated = true
	}
	if info.AvatarURL != "" && (user.AvatarURL == nil || *user.AvatarURL != info.AvatarURL) {
		avatar := info.AvatarURL
		user.AvatarURL = &avatar
		updated = true
	}

	if updated {
		user.UpdatedAt = time.Now()
		if err := s.repo.SaveUser(user); err != nil {
			return nil, err
		}
	}

	return s.issueTokenPair(user)
}

// USER MANAGEMENT

func (s *authService) GetUser(userID string) (*domain.User, error) {
	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}
	return user, nil
}

func (s *authService) ListUsers(filter repository.UserFilter) ([]domain.User, error) {
	return s.repo.ListUsers(filter)
}

func (s *authService) UpdateUser(userID string, input dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := utils.NormalizeEmail(*input.Email)
		if !utils.IsEmail(email) {
			return nil, apperr.Validation("a valid email is required")
		}
		if email != user.Email {
			existing, err := s.repo.FindUserByEmail(email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperr.Conflict("email")
			}
			user.Email = email
		}
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, apperr.Validation("username cannot be empty")
		}
		if user.Username == nil || *user.Username != username {
			existing, err := s.repo.FindUserByUsername(username)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperr.Conflict("username")
			}
			user.Username = &username
		}
	}

	if input.FullName != nil {
		fn := strings.TrimSpace(*input.FullName)
		if fn == "" {
			return nil, apperr.Validation("full_name cannot be empty")
		}
		user.FullName = fn
	}

	if input.Password != nil {
		if len(*input.Password) < 6 {
			return nil, apperr.Validation("password must be at least 6 characters")
		}
		hashed, err := helper.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = &hashed
	}

	if input.Role != nil {
		role, err := domain.ParseRole(*input.Role)
		if err != nil {
			return nil, apperr.Validation("%v", err)
		}
		user.Role = role
	}

	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivateUser is the standard removal path; the record is kept.
func (s *authService) DeactivateUser(userID string) (*domain.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = false
	user.UpdatedAt = time.Now()
	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) DeleteUser(userID string) error {
	deleted, err := s.repo.DeleteUser(userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrUserNotFound
	}
	return nil
}

func (s *authService) VerifyUserEmail(userID string) (*domain.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.IsVerified = true
	user.UpdatedAt = time.Now()
	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUserByAdmin pre-provisions a federated account. No password is stored;
// the account becomes usable on its first Google login.
func (s *authService) CreateUserByAdmin(input dto.CreateUserByAdminRequest) (*domain.User, error) {
	email := utils.NormalizeEmail(input.Email)
	if email == "" || !utils.IsEmail(email) {
		return nil, apperr.Validation("a valid email is required")
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}

	newUser := &domain.User{
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		IsActive:     true,
		IsVerified:   true,
		AuthProvider: domain.AuthProviderGoogle,
	}

	return s.repo.CreateUser(newUser)
}
