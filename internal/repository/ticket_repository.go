package repository

import (
	"context"
	"errors"
	"fmt"

	"ticketify/internal/model"
	apperrors "ticketify/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	// Create appends a ledger row. When the (user, idempotency key) pair already exists
	// it returns the existing row and created=false.
	Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	FindByIDForUser(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.TicketWithEvent, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.TicketWithEvent, error)
	ListByEventIDs(ctx context.Context, eventIDs []uuid.UUID) ([]*model.Ticket, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

const ticketColumns = `id, event_id, user_id, organizer_id, quantity, unit_price, total_price, idempotency_key, purchased_at`

const ticketWithEventColumns = `t.id, t.event_id, t.user_id, t.organizer_id, t.quantity, t.unit_price, t.total_price,
	t.idempotency_key, t.purchased_at, e.title, e.date, e.location`

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.OrganizerID,
		&ticket.Quantity,
		&ticket.UnitPrice,
		&ticket.TotalPrice,
		&ticket.IdempotencyKey,
		&ticket.PurchasedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTicketWithEvent(row pgx.Row) (*model.TicketWithEvent, error) {
	var t model.TicketWithEvent
	err := row.Scan(
		&t.ID,
		&t.EventID,
		&t.UserID,
		&t.OrganizerID,
		&t.Quantity,
		&t.UnitPrice,
		&t.TotalPrice,
		&t.IdempotencyKey,
		&t.PurchasedAt,
		&t.EventTitle,
		&t.EventDate,
		&t.EventLocation,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, bool, error) {
	query := `
		INSERT INTO tickets (event_id, user_id, organizer_id, quantity, unit_price, total_price, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, idempotency_key) WHERE idempotency_key IS NOT NULL DO NOTHING
		RETURNING ` + ticketColumns

	created, err := scanTicket(tx.QueryRow(ctx, query,
		ticket.EventID,
		ticket.UserID,
		ticket.OrganizerID,
		ticket.Quantity,
		ticket.UnitPrice,
		ticket.TotalPrice,
		ticket.IdempotencyKey,
	))
	if err == nil {
		return created, true, nil
	}
	if isConstraintViolation(err) {
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrWriteRejected, err)
	}
	if !errors.Is(err, pgx.ErrNoRows) || ticket.IdempotencyKey == nil {
		return nil, false, err
	}

	query = `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = $1 AND idempotency_key = $2`
	existing, err := scanTicket(tx.QueryRow(ctx, query, ticket.UserID, *ticket.IdempotencyKey))
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRepositoryImpl) FindByIDForUser(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.TicketWithEvent, error) {
	query := `
		SELECT ` + ticketWithEventColumns + `
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.id = $1 AND t.user_id = $2
	`

	ticket, err := scanTicketWithEvent(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.TicketWithEvent, error) {
	query := `
		SELECT ` + ticketWithEventColumns + `
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.user_id = $1
		ORDER BY t.purchased_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.TicketWithEvent, 0)
	for rows.Next() {
		ticket, err := scanTicketWithEvent(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func (r *TicketRepositoryImpl) ListByEventIDs(ctx context.Context, eventIDs []uuid.UUID) ([]*model.Ticket, error) {
	tickets := make([]*model.Ticket, 0)
	if len(eventIDs) == 0 {
		return tickets, nil
	}

	ids := make([]string, len(eventIDs))
	for i, id := range eventIDs {
		ids[i] = id.String()
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE event_id = ANY($1::uuid[])`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}
