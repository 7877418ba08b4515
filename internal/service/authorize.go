package service

import (
	"fmt"

	"ticketify/internal/model"
	"ticketify/internal/session"
	apperrors "ticketify/pkg/app_errors"

	"github.com/google/uuid"
)

func requireSignedIn(sess *session.Session) (uuid.UUID, model.Role, error) {
	role := sess.Role()
	switch role {
	case model.RoleAnonymous:
		return uuid.Nil, role, apperrors.ErrAuthRejected
	case model.RoleAttendee, model.RoleOrganizer:
		userID, ok := sess.UserID()
		if !ok {
			return uuid.Nil, role, apperrors.ErrAuthRejected
		}
		return userID, role, nil
	default:
		return uuid.Nil, role, fmt.Errorf("%w: %s", apperrors.ErrUnknownRole, role)
	}
}

func requireAttendee(sess *session.Session) (uuid.UUID, error) {
	userID, role, err := requireSignedIn(sess)
	if err != nil {
		return uuid.Nil, err
	}
	switch role {
	case model.RoleAttendee:
		return userID, nil
	case model.RoleOrganizer:
		return uuid.Nil, fmt.Errorf("%w: organizers cannot purchase tickets", apperrors.ErrForbiddenRole)
	case model.RoleAnonymous:
		return uuid.Nil, apperrors.ErrAuthRejected
	default:
		return uuid.Nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownRole, role)
	}
}

func requireOrganizer(sess *session.Session) (uuid.UUID, error) {
	userID, role, err := requireSignedIn(sess)
	if err != nil {
		return uuid.Nil, err
	}
	switch role {
	case model.RoleOrganizer:
		return userID, nil
	case model.RoleAttendee:
		return uuid.Nil, fmt.Errorf("%w: organizer role required", apperrors.ErrForbiddenRole)
	case model.RoleAnonymous:
		return uuid.Nil, apperrors.ErrAuthRejected
	default:
		return uuid.Nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownRole, role)
	}
}
