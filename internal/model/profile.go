package model

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,max=120"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	Bio       *string `json:"bio" binding:"omitempty,max=1000"`
}

type UpdateProfileParams struct {
	FullName  *string
	AvatarURL *string
	Bio       *string
}
