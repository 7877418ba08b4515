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
	"github.com/shopspring/decimal"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// FindPricingForShare locks the event row against concurrent updates until tx ends.
	FindPricingForShare(ctx context.Context, tx pgx.Tx, id uuid.UUID) (decimal.Decimal, uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, organizerID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID, organizerID uuid.UUID) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, title, description, date, location, price, image_url, category, organizer_id, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.Price,
		&event.ImageURL,
		&event.Category,
		&event.OrganizerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (title, description, date, location, price, image_url, category, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.Price,
		event.ImageURL,
		event.Category,
		event.OrganizerID,
	))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrWriteRejected, err)
		}
		return nil, err
	}
	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []interface{}{}
	if filter.Category != nil {
		query += ` WHERE category = $1`
		args = append(args, *filter.Category)
	}
	query += ` ORDER BY date ASC, created_at ASC`

	return r.queryEvents(ctx, query, args...)
}

func (r *EventRepositoryImpl) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY date ASC, created_at ASC
	`
	return r.queryEvents(ctx, query, organizerID)
}

func (r *EventRepositoryImpl) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindPricingForShare(ctx context.Context, tx pgx.Tx, id uuid.UUID) (decimal.Decimal, uuid.UUID, error) {
	query := `
		SELECT price, organizer_id
		FROM events
		WHERE id = $1
		FOR SHARE
	`

	var price decimal.Decimal
	var organizerID uuid.UUID
	err := tx.QueryRow(ctx, query, id).Scan(&price, &organizerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, uuid.Nil, apperrors.ErrEventNotFound
		}
		return decimal.Zero, uuid.Nil, err
	}
	return price, organizerID, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id uuid.UUID, organizerID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Date != nil {
		add("date", *params.Date)
	}
	if params.Location != nil {
		add("location", *params.Location)
	}
	if params.Price != nil {
		add("price", *params.Price)
	}
	if params.ImageURL != nil {
		add("image_url", *params.ImageURL)
	}
	if params.Category != nil {
		add("category", *params.Category)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	add("updated_at", time.Now().UTC())

	args = append(args, id, organizerID)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d AND organizer_id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, argPos+1, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missOrReject(ctx, id)
		}
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrWriteRejected, err)
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id uuid.UUID, organizerID uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1 AND organizer_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, organizerID)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: event has ticket sales", apperrors.ErrWriteRejected)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.missOrReject(ctx, id)
	}
	return nil
}

// missOrReject tells an unknown event apart from one owned by someone else.
func (r *EventRepositoryImpl) missOrReject(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrEventNotFound
	}
	return fmt.Errorf("%w: event is owned by another organizer", apperrors.ErrWriteRejected)
}
