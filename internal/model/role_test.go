package model

import (
	"encoding/json"
	"testing"

	apperrors "ticketify/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStoredRole(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		role, err := ParseStoredRole("user")
		require.NoError(t, err)
		assert.Equal(t, RoleAttendee, role)

		role, err = ParseStoredRole("organizer")
		require.NoError(t, err)
		assert.Equal(t, RoleOrganizer, role)
	})

	t.Run("Failed - ErrUnknownRole", func(t *testing.T) {
		for _, s := range []string{"", "Organizer", "admin", "anonymous"} {
			_, err := ParseStoredRole(s)
			assert.ErrorIs(t, err, apperrors.ErrUnknownRole, s)
		}
	})
}

func TestRoleFromMetadata(t *testing.T) {
	assert.Equal(t, RoleOrganizer, RoleFromMetadata(map[string]interface{}{"role": "organizer"}))
	assert.Equal(t, RoleAttendee, RoleFromMetadata(map[string]interface{}{"role": "user"}))
	assert.Equal(t, RoleAttendee, RoleFromMetadata(map[string]interface{}{"role": 42}))
	assert.Equal(t, RoleAttendee, RoleFromMetadata(nil))
}

func TestRole_Stored(t *testing.T) {
	s, err := RoleOrganizer.Stored()
	require.NoError(t, err)
	assert.Equal(t, "organizer", s)

	s, err = RoleAttendee.Stored()
	require.NoError(t, err)
	assert.Equal(t, "user", s)

	_, err = RoleAnonymous.Stored()
	assert.ErrorIs(t, err, apperrors.ErrUnknownRole)

	_, err = Role(9).Stored()
	assert.ErrorIs(t, err, apperrors.ErrUnknownRole)
}

func TestRole_JSON(t *testing.T) {
	type wrapper struct {
		Role Role `json:"role"`
	}

	t.Run("Success", func(t *testing.T) {
		for _, role := range []Role{RoleAnonymous, RoleAttendee, RoleOrganizer} {
			raw, err := json.Marshal(wrapper{Role: role})
			require.NoError(t, err)

			var got wrapper
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, role, got.Role)
		}
	})

	t.Run("Failed - unknown value", func(t *testing.T) {
		var got wrapper
		err := json.Unmarshal([]byte(`{"role":"admin"}`), &got)
		assert.Error(t, err)

		_, err = json.Marshal(wrapper{Role: Role(7)})
		assert.Error(t, err)
	})
}

func TestRole_IsSignedIn(t *testing.T) {
	assert.False(t, RoleAnonymous.IsSignedIn())
	assert.True(t, RoleAttendee.IsSignedIn())
	assert.True(t, RoleOrganizer.IsSignedIn())
}
