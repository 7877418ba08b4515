package mocks

import (
	"context"

	"ticketify/internal/model"
	"ticketify/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// NewSession resolves a session for a fresh user with the given role.
// RoleAnonymous yields an anonymous session and uuid.Nil.
func NewSession(role model.Role) (*session.Session, uuid.UUID) {
	if role == model.RoleAnonymous {
		return session.NewAnonymous(), uuid.Nil
	}

	id := &model.Identity{ID: uuid.New(), Email: "user@example.com"}
	verifier := NewTokenVerifierMock()
	verifier.On("Verify", mock.Anything, "access-token").Return(id, nil)
	profiles := NewProfileResolverMock()
	profiles.On("EnsureProfile", mock.Anything, id, "").Return(&model.Profile{ID: id.ID, FullName: "Test User", Role: role}, nil)

	sess, err := session.NewManager(NewProviderMock(), verifier, profiles).Init(context.Background(), "access-token")
	if err != nil {
		panic(err)
	}
	return sess, id.ID
}
