package mocks

import (
	"context"

	"ticketify/internal/model"

	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func NewProviderMock() *ProviderMock {
	return &ProviderMock{}
}

func (m *ProviderMock) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*model.Identity, *model.AuthTokens, error) {
	args := m.Called(ctx, email, password, metadata)
	return identityResult(args)
}

func (m *ProviderMock) SignIn(ctx context.Context, email, password string) (*model.Identity, *model.AuthTokens, error) {
	args := m.Called(ctx, email, password)
	return identityResult(args)
}

func (m *ProviderMock) Refresh(ctx context.Context, refreshToken string) (*model.Identity, *model.AuthTokens, error) {
	args := m.Called(ctx, refreshToken)
	return identityResult(args)
}

func (m *ProviderMock) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func identityResult(args mock.Arguments) (*model.Identity, *model.AuthTokens, error) {
	var id *model.Identity
	var tokens *model.AuthTokens
	if v := args.Get(0); v != nil {
		id = v.(*model.Identity)
	}
	if v := args.Get(1); v != nil {
		tokens = v.(*model.AuthTokens)
	}
	return id, tokens, args.Error(2)
}

type TokenVerifierMock struct {
	mock.Mock
}

func NewTokenVerifierMock() *TokenVerifierMock {
	return &TokenVerifierMock{}
}

func (m *TokenVerifierMock) Verify(ctx context.Context, accessToken string) (*model.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Identity), args.Error(1)
}

type ProfileResolverMock struct {
	mock.Mock
}

func NewProfileResolverMock() *ProfileResolverMock {
	return &ProfileResolverMock{}
}

func (m *ProfileResolverMock) EnsureProfile(ctx context.Context, identity *model.Identity, fullName string) (*model.Profile, error) {
	args := m.Called(ctx, identity, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}
