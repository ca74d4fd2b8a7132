package googleauth

import (
	"context"
	"errors"

	"github.com/campusbridge/auth_service/internal/apperr"
	"github.com/campusbridge/auth_service/internal/dto"
	"google.golang.org/api/idtoken"
)

// Verifier validates Google ID tokens against the provider's current public
// keys and the configured OAuth client id.
type Verifier interface {
	VerifyIDToken(ctx context.Context, token string) (*dto.GoogleUserInfo, error)
}

type Client struct {
	clientID string
}

func New(clientID string) *Client {
	return &Client{clientID: clientID}
}

// VerifyIDToken checks signature, expiry, and audience, then extracts the
// subject and profile claims.
func (c *Client) VerifyIDToken(ctx context.Context, token string) (*dto.GoogleUserInfo, error) {
	if c.clientID == "" {
		return nil, errors.New("missing google client id")
	}

	payload, err := idtoken.Validate(ctx, token, c.clientID)
	if err != nil {
		return nil, apperr.Authentication(apperr.ErrInvalidExternalToken)
	}

	email, _ := payload.Claims["email"].(string)
	if payload.Subject == "" || email == "" {
		return nil, apperr.Authentication(apperr.ErrInvalidExternalToken)
	}

	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &dto.GoogleUserInfo{
		GoogleID:  payload.Subject,
		Email:     email,
		FullName:  name,
		AvatarURL: picture,
	}, nil
}
