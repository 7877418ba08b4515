package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ticketify/internal/model"
	apperrors "ticketify/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	// CreateIfMissing inserts the profile unless a row already exists and returns the stored row.
	CreateIfMissing(ctx context.Context, profile *model.Profile) (*model.Profile, bool, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateProfileParams) (*model.Profile, error)
}

type ProfileRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &ProfileRepositoryImpl{
		pool: pool,
	}
}

const profileColumns = `id, full_name, role, avatar_url, bio, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var profile model.Profile
	var role string
	err := row.Scan(
		&profile.ID,
		&profile.FullName,
		&role,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	profile.Role, err = model.ParseStoredRole(role)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *ProfileRepositoryImpl) CreateIfMissing(ctx context.Context, profile *model.Profile) (*model.Profile, bool, error) {
	role, err := profile.Role.Stored()
	if err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO profiles (id, full_name, role, avatar_url, bio)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + profileColumns

	created, err := scanProfile(r.pool.QueryRow(ctx, query,
		profile.ID,
		profile.FullName,
		role,
		profile.AvatarURL,
		profile.Bio,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if isConstraintViolation(err) {
			return nil, false, fmt.Errorf("%w: %v", apperrors.ErrWriteRejected, err)
		}
		return nil, false, err
	}

	// Lost the race to a concurrent resolution; the existing row wins.
	existing, err := r.FindByID(ctx, profile.ID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *ProfileRepositoryImpl) Update(ctx context.Context, id uuid.UUID, params model.UpdateProfileParams) (*model.Profile, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.FullName != nil {
		sets = append(sets, fmt.Sprintf("full_name = $%d", argPos))
		args = append(args, *params.FullName)
		argPos++
	}

	if params.AvatarURL != nil {
		sets = append(sets, fmt.Sprintf("avatar_url = $%d", argPos))
		args = append(args, *params.AvatarURL)
		argPos++
	}

	if params.Bio != nil {
		sets = append(sets, fmt.Sprintf("bio = $%d", argPos))
		args = append(args, *params.Bio)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE profiles
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, profileColumns)

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}
