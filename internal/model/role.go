package model

import (
	"fmt"

	apperrors "ticketify/pkg/app_errors"
)

// Role is the closed set of caller roles. The zero value is RoleAnonymous.
type Role uint8

const (
	RoleAnonymous Role = iota
	RoleAttendee
	RoleOrganizer
)

// Values persisted in profiles.role and carried in sign-up metadata.
const (
	storedAttendee  = "user"
	storedOrganizer = "organizer"
)

// ParseStoredRole maps a profiles.role value to a Role. Anonymous is never stored.
func ParseStoredRole(s string) (Role, error) {
	switch s {
	case storedAttendee:
		return RoleAttendee, nil
	case storedOrganizer:
		return RoleOrganizer, nil
	default:
		return RoleAnonymous, fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, s)
	}
}

// RoleFromMetadata reads the registration-time role. Anything but "organizer" is an attendee.
func RoleFromMetadata(metadata map[string]interface{}) Role {
	if v, ok := metadata["role"].(string); ok && v == storedOrganizer {
		return RoleOrganizer
	}
	return RoleAttendee
}

// Stored returns the profiles.role value for a signed-in role.
func (r Role) Stored() (string, error) {
	switch r {
	case RoleAttendee:
		return storedAttendee, nil
	case RoleOrganizer:
		return storedOrganizer, nil
	case RoleAnonymous:
		return "", fmt.Errorf("%w: anonymous has no stored form", apperrors.ErrUnknownRole)
	default:
		return "", fmt.Errorf("%w: %d", apperrors.ErrUnknownRole, uint8(r))
	}
}

func (r Role) String() string {
	switch r {
	case RoleAnonymous:
		return "anonymous"
	case RoleAttendee:
		return storedAttendee
	case RoleOrganizer:
		return storedOrganizer
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

func (r Role) IsSignedIn() bool {
	switch r {
	case RoleAttendee, RoleOrganizer:
		return true
	case RoleAnonymous:
		return false
	default:
		return false
	}
}

func (r Role) MarshalText() ([]byte, error) {
	switch r {
	case RoleAnonymous, RoleAttendee, RoleOrganizer:
		return []byte(r.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", apperrors.ErrUnknownRole, uint8(r))
	}
}

func (r *Role) UnmarshalText(text []byte) error {
	if string(text) == "anonymous" {
		*r = RoleAnonymous
		return nil
	}
	parsed, err := ParseStoredRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
