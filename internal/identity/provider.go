// Package identity talks to the external auth service and verifies the access tokens it issues.
package identity

import (
	"context"

	"ticketify/internal/model"
)

type Provider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*model.Identity, *model.AuthTokens, error)
	SignIn(ctx context.Context, email, password string) (*model.Identity, *model.AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*model.Identity, *model.AuthTokens, error)
	SignOut(ctx context.Context, accessToken string) error
}

type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (*model.Identity, error)
}
