package helper

import (
	"errors"
	"testing"
	"time"

	"github.com/campusbridge/auth_service/internal/apperr"
)

func newTestTokenService(secret string) TokenService {
	return NewTokenService(secret, 30*time.Minute, 7*24*time.Hour, 30*time.Minute)
}

func TestIssueAndVerify_AllTypes(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService("super-secret")

	cases := []struct {
		name    string
		issue   func() (string, error)
		subject string
		want    string
	}{
		{"access", func() (string, error) { return svc.IssueAccessToken("user-123") }, "user-123", TokenTypeAccess},
		{"refresh", func() (string, error) { return svc.IssueRefreshToken("user-123") }, "user-123", TokenTypeRefresh},
		{"reset", func() (string, error) { return svc.IssuePasswordResetToken("a@x.com") }, "a@x.com", TokenTypePasswordReset},
	}

	for _, tc := range cases {
		tok, err := tc.issue()
		if err != nil {
			t.Fatalf("%s: issue error: %v", tc.name, err)
		}
		claims, err := svc.Verify(tok, tc.want)
		if err != nil {
			t.Fatalf("%s: verify error: %v", tc.name, err)
		}
		if claims.Subject != tc.subject {
			t.Fatalf("%s: subject mismatch: got %q want %q", tc.name, claims.Subject, tc.subject)
		}
		if claims.TokenType != tc.want {
			t.Fatalf("%s: type mismatch: got %q want %q", tc.name, claims.TokenType, tc.want)
		}
	}
}

func TestVerify_WrongType(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService("secret")

	refresh, err := svc.IssueRefreshToken("u1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	_, err = svc.Verify(refresh, TokenTypeAccess)
	if !errors.Is(err, apperr.ErrTokenWrongType) {
		t.Fatalf("expected wrong-type error, got %v", err)
	}

	access, err := svc.IssueAccessToken("u1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	_, err = svc.Verify(access, TokenTypeRefresh)
	if !errors.Is(err, apperr.ErrTokenWrongType) {
		t.Fatalf("expected wrong-type error, got %v", err)
	}
}

func TestVerify_ResetTokenNotASessionToken(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService("secret")

	reset, err := svc.IssuePasswordResetToken("a@x.com")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	if _, err := svc.Verify(reset, TokenTypeAccess); !errors.Is(err, apperr.ErrTokenWrongType) {
		t.Fatalf("expected wrong-type error for access check, got %v", err)
	}
	if _, err := svc.Verify(reset, TokenTypeRefresh); !errors.Is(err, apperr.ErrTokenWrongType) {
		t.Fatalf("expected wrong-type error for refresh check, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("secret", -1*time.Second, -1*time.Second, -1*time.Second)

	tok, err := svc.IssueAccessToken("u1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	_, err = svc.Verify(tok, TokenTypeAccess)
	if !errors.Is(err, apperr.ErrTokenExpired) {
		t.Fatalf("expected expired error, got %v", err)
	}

	var te *apperr.TokenError
	if !errors.As(err, &te) {
		t.Fatalf("expected TokenError, got %T", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newTestTokenService("right-secret").IssueAccessToken("u2")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	_, err = newTestTokenService("wrong-secret").Verify(tok, TokenTypeAccess)
	if !errors.Is(err, apperr.ErrTokenInvalidSignature) {
		t.Fatalf("expected invalid-signature error, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService("k")

	for _, tok := range []string{"", "   ", "not.a.jwt"} {
		if _, err := svc.Verify(tok, TokenTypeAccess); !errors.Is(err, apperr.ErrTokenMalformed) {
			t.Fatalf("token %q: expected malformed error, got %v", tok, err)
		}
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"  Bearer abc": "abc",
		"abc":          "",
		"Basic abc":    "",
		"Bearer":       "",
		"":             "",
	}
	for in, want := range cases {
		if got := BearerToken(in); got != want {
			t.Fatalf("BearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}
