package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors - Authentication
var (
	ErrInvalidCredentials   = errors.New("invalid email/username or password")
	ErrAccountDeactivated   = errors.New("user account is deactivated")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidExternalToken = errors.New("invalid Google token")
	ErrNotRegistered        = errors.New("not registered, please contact admin")
)

// Sentinel errors - Token
var (
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenInvalidSignature = errors.New("invalid token signature")
	ErrTokenWrongType        = errors.New("invalid token type")
	ErrTokenMalformed        = errors.New("malformed token")
)

// ValidationError rejects malformed input before it reaches the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness violation and names the offending field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

func Conflict(field string) error {
	return &ConflictError{Field: field}
}

// AuthenticationError wraps a credential, token, or account-state failure.
type AuthenticationError struct {
	Reason error
}

func (e *AuthenticationError) Error() string {
	return e.Reason.Error()
}

func (e *AuthenticationError) Unwrap() error {
	return e.Reason
}

func Authentication(reason error) error {
	return &AuthenticationError{Reason: reason}
}

// AuthorizationError means the identity is valid but the role is insufficient.
// The required roles are not sensitive and are carried for diagnostics.
type AuthorizationError struct {
	Required []string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not enough permissions, required roles: %s", strings.Join(e.Required, ", "))
}

func Authorization(required ...string) error {
	return &AuthorizationError{Required: required}
}

// TokenError reports a signature, expiry, or type failure at the token layer.
// Callers typically wrap it into an AuthenticationError before responding.
type TokenError struct {
	Reason error
}

func (e *TokenError) Error() string {
	return e.Reason.Error()
}

func (e *TokenError) Unwrap() error {
	return e.Reason
}

func Token(reason error) error {
	return &TokenError{Reason: reason}
}

// IsAuthFailure reports whether err belongs to any denial category, as opposed
// to an internal failure that should surface as a server error.
func IsAuthFailure(err error) bool {
	var ae *AuthenticationError
	var te *TokenError
	return errors.As(err, &ae) || errors.As(err, &te)
}
