package identity

import (
	"context"
	"fmt"

	"ticketify/internal/model"
	apperrors "ticketify/pkg/app_errors"
	"ticketify/pkg/logger"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"
)

// SupabaseProvider adapts a GoTrue client. GoTrue calls carry no context, so ctx is only
// checked before each call.
type SupabaseProvider struct {
	auth gotrue.Client
}

func NewSupabaseProvider(auth gotrue.Client) Provider {
	return &SupabaseProvider{auth: auth}
}

func (p *SupabaseProvider) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*model.Identity, *model.AuthTokens, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	resp, err := p.auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     metadata,
	})
	if err != nil {
		logger.WithComponent("identity").Warn("sign up refused", zap.Error(err))
		return nil, nil, fmt.Errorf("%w: sign up refused", apperrors.ErrWriteRejected)
	}

	identity := &model.Identity{
		ID:       resp.ID,
		Email:    resp.Email,
		Metadata: resp.UserMetadata,
	}

	// With email confirmation enabled GoTrue returns no session.
	if resp.AccessToken == "" {
		return identity, nil, nil
	}
	return identity, &model.AuthTokens{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		ExpiresAt:    resp.ExpiresAt,
	}, nil
}

func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (*model.Identity, *model.AuthTokens, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	resp, err := p.auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrAuthRejected)
	}
	return fromTokenResponse(resp)
}

func (p *SupabaseProvider) Refresh(ctx context.Context, refreshToken string) (*model.Identity, *model.AuthTokens, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	resp, err := p.auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: refresh failed", apperrors.ErrAuthRejected)
	}
	return fromTokenResponse(resp)
}

func (p *SupabaseProvider) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.auth.WithToken(accessToken).Logout()
}

func fromTokenResponse(resp *types.TokenResponse) (*model.Identity, *model.AuthTokens, error) {
	if resp == nil || resp.AccessToken == "" {
		return nil, nil, fmt.Errorf("%w: empty session", apperrors.ErrAuthRejected)
	}
	return &model.Identity{
			ID:       resp.User.ID,
			Email:    resp.User.Email,
			Metadata: resp.User.UserMetadata,
		}, &model.AuthTokens{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			ExpiresIn:    resp.ExpiresIn,
			ExpiresAt:    resp.ExpiresAt,
		}, nil
}
