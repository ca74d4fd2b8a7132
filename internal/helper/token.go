package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/campusbridge/auth_service/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess        = "access"
	TokenTypeRefresh       = "refresh"
	TokenTypePasswordReset = "password_reset"
)

// Claims carries the registered claims plus the token purpose. A token of one
// purpose is never honored where another is required.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
}

// TokenService issues and verifies HS256-signed, stateless tokens. Validity is
// purely a function of signature and expiry at verification time.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL, resetTTL time.Duration) TokenService {
	return TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

// AccessTTL reports the configured access-token lifetime.
func (t TokenService) AccessTTL() time.Duration {
	return t.accessTTL
}

// IssueAccessToken signs a short-lived session token for the given user id.
func (t TokenService) IssueAccessToken(userID string) (string, error) {
	return t.issue(userID, TokenTypeAccess, t.accessTTL)
}

// IssueRefreshToken signs a long-lived token used solely to mint new access tokens.
func (t TokenService) IssueRefreshToken(userID string) (string, error) {
	return t.issue(userID, TokenTypeRefresh, t.refreshTTL)
}

// IssuePasswordResetToken binds the email address (not the user id) as subject.
func (t TokenService) IssuePasswordResetToken(email string) (string, error) {
	return t.issue(email, TokenTypePasswordReset, t.resetTTL)
}

func (t TokenService) issue(subject, tokenType string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("missing subject to generate token")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
	})

	return token.SignedString(t.secret)
}

// Verify parses the token, checks the signature and expiry, and requires the
// embedded type to match wantType. On success the subject is returned.
func (t TokenService) Verify(tokenString, wantType string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, apperr.Token(apperr.ErrTokenMalformed)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperr.Token(apperr.ErrTokenExpired)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, apperr.Token(apperr.ErrTokenInvalidSignature)
		default:
			return nil, apperr.Token(apperr.ErrTokenMalformed)
		}
	}
	if !token.Valid {
		return nil, apperr.Token(apperr.ErrTokenMalformed)
	}

	if claims.TokenType != wantType {
		return nil, apperr.Token(apperr.ErrTokenWrongType)
	}
	if claims.Subject == "" {
		return nil, apperr.Token(apperr.ErrTokenMalformed)
	}

	return claims, nil
}

// BearerToken extracts the credential from an "Authorization: Bearer <token>"
// value. Headers without the Bearer scheme yield "".
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
