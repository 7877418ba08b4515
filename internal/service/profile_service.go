package service

import (
	"context"
	"errors"

	"ticketify/internal/model"
	"ticketify/internal/repository"
	"ticketify/internal/session"
	apperrors "ticketify/pkg/app_errors"
	"ticketify/pkg/logger"

	"go.uber.org/zap"
)

type ProfileService interface {
	// EnsureProfile reads the identity's profile and creates it from the
	// registration metadata role when it does not exist yet.
	EnsureProfile(ctx context.Context, identity *model.Identity, fullName string) (*model.Profile, error)
	GetMyProfile(ctx context.Context, sess *session.Session) (*model.Profile, error)
	UpdateMyProfile(ctx context.Context, sess *session.Session, req model.UpdateProfileRequest) (*model.Profile, error)
}

type ProfileServiceImpl struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &ProfileServiceImpl{repo: repo}
}

func (s *ProfileServiceImpl) EnsureProfile(ctx context.Context, identity *model.Identity, fullName string) (*model.Profile, error) {
	profile, err := s.repo.FindByID(ctx, identity.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, apperrors.ErrProfileNotFound) {
		return nil, err
	}

	profile, created, err := s.repo.CreateIfMissing(ctx, &model.Profile{
		ID:       identity.ID,
		FullName: fullName,
		Role:     model.RoleFromMetadata(identity.Metadata),
	})
	if err != nil {
		return nil, err
	}
	if created {
		logger.WithComponent("service").Info("profile created",
			zap.String("user_id", identity.ID.String()),
			zap.String("role", profile.Role.String()))
	}
	return profile, nil
}

func (s *ProfileServiceImpl) GetMyProfile(ctx context.Context, sess *session.Session) (*model.Profile, error) {
	userID, _, err := requireSignedIn(sess)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *ProfileServiceImpl) UpdateMyProfile(ctx context.Context, sess *session.Session, req model.UpdateProfileRequest) (*model.Profile, error) {
	userID, _, err := requireSignedIn(sess)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, model.UpdateProfileParams{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	})
}
