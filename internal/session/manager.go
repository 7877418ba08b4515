package session

import (
	"context"
	"fmt"

	"ticketify/internal/identity"
	"ticketify/internal/model"
	apperrors "ticketify/pkg/app_errors"
	"ticketify/pkg/logger"

	"go.uber.org/zap"
)

// ProfileResolver returns the profile of an identity, creating it on first sign-in.
type ProfileResolver interface {
	EnsureProfile(ctx context.Context, identity *model.Identity, fullName string) (*model.Profile, error)
}

type Manager struct {
	provider identity.Provider
	verifier identity.TokenVerifier
	profiles ProfileResolver
}

func NewManager(provider identity.Provider, verifier identity.TokenVerifier, profiles ProfileResolver) *Manager {
	return &Manager{
		provider: provider,
		verifier: verifier,
		profiles: profiles,
	}
}

type Registration struct {
	Profile *model.Profile
	// Session is anonymous when the auth service requires email confirmation first.
	Session *Session
}

// Init checks the caller's access token. No token resolves to an anonymous session.
func (m *Manager) Init(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return NewAnonymous(), nil
	}

	id, err := m.verifier.Verify(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	s := New()
	if err := m.resolveInto(ctx, s, id, &model.AuthTokens{AccessToken: accessToken}); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	id, tokens, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s := New()
	if err := m.resolveInto(ctx, s, id, tokens); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) SignUp(ctx context.Context, req model.SignUpRequest) (*Registration, error) {
	role := model.RoleAttendee
	if req.Role != "" {
		parsed, err := model.ParseStoredRole(req.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		role = parsed
	}
	stored, err := role.Stored()
	if err != nil {
		return nil, err
	}

	id, tokens, err := m.provider.SignUp(ctx, req.Email, req.Password, map[string]interface{}{
		"role":      stored,
		"full_name": req.FullName,
	})
	if err != nil {
		return nil, err
	}
	metadata := map[string]interface{}{}
	for k, v := range id.Metadata {
		metadata[k] = v
	}
	metadata["role"] = stored
	id.Metadata = metadata

	profile, err := m.profiles.EnsureProfile(ctx, id, req.FullName)
	if err != nil {
		return nil, err
	}

	reg := &Registration{Profile: profile, Session: NewAnonymous()}
	if tokens != nil {
		reg.Session = New()
		reg.Session.resolve(id, profile, tokens)
	}
	return reg, nil
}

// Refresh exchanges the refresh token and re-runs role resolution in full.
// On failure the session is cleared.
func (m *Manager) Refresh(ctx context.Context, s *Session, refreshToken string) error {
	id, tokens, err := m.provider.Refresh(ctx, refreshToken)
	if err != nil {
		s.reset()
		return err
	}
	if err := m.resolveInto(ctx, s, id, tokens); err != nil {
		s.reset()
		return err
	}
	return nil
}

// Clear drops identity and role, then signs out at the provider.
// The session is cleared even when sign-out fails; the failure is still returned.
func (m *Manager) Clear(ctx context.Context, s *Session) error {
	token := s.AccessToken()
	userID, _ := s.UserID()
	s.reset()

	if token == "" {
		return nil
	}
	if err := m.provider.SignOut(ctx, token); err != nil {
		logger.WithComponent("session").Warn("provider sign out failed",
			zap.String("user_id", userID.String()), zap.Error(err))
		return fmt.Errorf("%w: %v", apperrors.ErrSignOutFailed, err)
	}
	return nil
}

func (m *Manager) resolveInto(ctx context.Context, s *Session, id *model.Identity, tokens *model.AuthTokens) error {
	profile, err := m.profiles.EnsureProfile(ctx, id, "")
	if err != nil {
		return err
	}
	s.resolve(id, profile, tokens)
	return nil
}
