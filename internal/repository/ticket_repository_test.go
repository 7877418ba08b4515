package repository_test

import (
	"context"
	"sync"
	"testing"

	"ticketify/internal/database"
	"ticketify/internal/model"
	"ticketify/internal/repository"
	apperrors "ticketify/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_Create(t *testing.T) {
	db := getTestDB(t)
	repo := repository.NewTicketRepository(db)
	events := repository.NewEventRepository(db)
	tx := database.NewTransactor(db)
	ctx := context.Background()

	organizerID := createTestProfile(t, model.RoleOrganizer)
	userID := createTestProfile(t, model.RoleAttendee)
	event := createTestEvent(t, organizerID, "Jazz Night", day("2026-06-01"), 20)

	t.Run("Price snapshot and total", func(t *testing.T) {
		var created *model.Ticket
		err := tx.WithinTx(ctx, func(tx pgx.Tx) error {
			price, orgID, err := events.FindPricingForShare(ctx, tx, event.ID)
			if err != nil {
				return err
			}
			created, _, err = repo.Create(ctx, tx, &model.Ticket{
				EventID:     event.ID,
				UserID:      userID,
				OrganizerID: orgID,
				Quantity:    3,
				UnitPrice:   price,
				TotalPrice:  price.Mul(decimal.NewFromInt(3)),
			})
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, organizerID, created.OrganizerID)
		assert.True(t, created.TotalPrice.Equal(decimal.NewFromInt(60)))
		assert.True(t, created.UnitPrice.Equal(decimal.NewFromInt(20)))
	})

	t.Run("Same idempotency key from concurrent requests writes one row", func(t *testing.T) {
		key := "retry-" + uuid.NewString()
		var wg sync.WaitGroup
		ids := make([]uuid.UUID, 5)
		errs := make([]error, 5)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = tx.WithinTx(ctx, func(tx pgx.Tx) error {
					ticket, _, err := repo.Create(ctx, tx, &model.Ticket{
						EventID:        event.ID,
						UserID:         userID,
						OrganizerID:    organizerID,
						Quantity:       1,
						UnitPrice:      decimal.NewFromInt(20),
						TotalPrice:     decimal.NewFromInt(20),
						IdempotencyKey: &key,
					})
					if err == nil {
						ids[i] = ticket.ID
					}
					return err
				})
			}(i)
		}
		wg.Wait()

		for i := range ids {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
		var count int
		require.NoError(t, db.QueryRow(ctx, "SELECT COUNT(*) FROM tickets WHERE idempotency_key = $1", key).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("Missing event", func(t *testing.T) {
		err := tx.WithinTx(ctx, func(tx pgx.Tx) error {
			_, _, err := events.FindPricingForShare(ctx, tx, uuid.New())
			return err
		})
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestTicketRepository_Queries(t *testing.T) {
	db := getTestDB(t)
	repo := repository.NewTicketRepository(db)
	tx := database.NewTransactor(db)
	ctx := context.Background()

	organizerID := createTestProfile(t, model.RoleOrganizer)
	userID := createTestProfile(t, model.RoleAttendee)
	otherUser := createTestProfile(t, model.RoleAttendee)
	event := createTestEvent(t, organizerID, "Jazz Night", day("2026-06-01"), 20)

	var ticket *model.Ticket
	require.NoError(t, tx.WithinTx(ctx, func(tx pgx.Tx) error {
		var err error
		ticket, _, err = repo.Create(ctx, tx, &model.Ticket{
			EventID: event.ID, UserID: userID, OrganizerID: organizerID,
			Quantity: 2, UnitPrice: decimal.NewFromInt(20), TotalPrice: decimal.NewFromInt(40),
		})
		return err
	}))

	t.Run("FindByIDForUser joins the event", func(t *testing.T) {
		found, err := repo.FindByIDForUser(ctx, ticket.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, "Jazz Night", found.EventTitle)
		assert.Equal(t, "Berlin", found.EventLocation)
	})

	t.Run("FindByIDForUser hides other users' tickets", func(t *testing.T) {
		_, err := repo.FindByIDForUser(ctx, ticket.ID, otherUser)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})

	t.Run("ListByUser", func(t *testing.T) {
		tickets, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, tickets, 1)

		tickets, err = repo.ListByUser(ctx, otherUser)
		require.NoError(t, err)
		assert.Empty(t, tickets)
	})

	t.Run("ListByEventIDs", func(t *testing.T) {
		tickets, err := repo.ListByEventIDs(ctx, []uuid.UUID{event.ID})
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, 2, tickets[0].Quantity)

		none, err := repo.ListByEventIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Event with sales cannot be deleted", func(t *testing.T) {
		err := repository.NewEventRepository(db).Delete(ctx, event.ID, organizerID)
		assert.ErrorIs(t, err, apperrors.ErrWriteRejected)
		assertRowCount(t, "events", 1)
	})
}
