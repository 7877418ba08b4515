package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketify/internal/cache"
	"ticketify/internal/mocks"
	"ticketify/internal/model"
	"ticketify/internal/service"
	apperrors "ticketify/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type purchaseDeps struct {
	tx      *mocks.TransactorMock
	events  *mocks.EventRepositoryMock
	tickets *mocks.TicketRepositoryMock
	guard   *mocks.PurchaseGuardMock
	queue   *mocks.PurchaseQueueMock
}

func setupPurchase() (service.PurchaseService, *purchaseDeps) {
	d := &purchaseDeps{
		tx:      mocks.NewTransactorMock(),
		events:  mocks.NewEventRepositoryMock(),
		tickets: mocks.NewTicketRepositoryMock(),
		guard:   mocks.NewPurchaseGuardMock(),
		queue:   mocks.NewPurchaseQueueMock(),
	}
	return service.NewPurchaseService(d.tx, d.events, d.tickets, d.guard, d.queue), d
}

func (d *purchaseDeps) assertAll(t *testing.T) {
	d.tx.AssertExpectations(t)
	d.events.AssertExpectations(t)
	d.tickets.AssertExpectations(t)
	d.guard.AssertExpectations(t)
	d.queue.AssertExpectations(t)
}

func TestPurchaseService_Purchase(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()
	organizerID := uuid.New()

	t.Run("Success - total is unit price times quantity", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, userID := mocks.NewSession(model.RoleAttendee)
		ticketID := uuid.New()

		d.guard.On("Acquire", ctx, userID, "key-1").Return(cache.GuardResult{State: cache.GuardAcquired}, nil).Once()
		d.tx.On("WithinTx", ctx).Return(nil).Once()
		d.events.On("FindPricingForShare", ctx, mock.Anything, eventID).Return(decimal.NewFromInt(20), organizerID, nil).Once()
		d.tickets.On("Create", ctx, mock.Anything, mock.MatchedBy(func(row *model.Ticket) bool {
			return row.UserID == userID &&
				row.EventID == eventID &&
				row.OrganizerID == organizerID &&
				row.Quantity == 3 &&
				row.UnitPrice.Equal(decimal.NewFromInt(20)) &&
				row.TotalPrice.Equal(decimal.NewFromInt(60)) &&
				row.IdempotencyKey != nil && *row.IdempotencyKey == "key-1"
		})).Return(&model.Ticket{
			ID:          ticketID,
			EventID:     eventID,
			UserID:      userID,
			OrganizerID: organizerID,
			Quantity:    3,
			UnitPrice:   decimal.NewFromInt(20),
			TotalPrice:  decimal.NewFromInt(60),
			PurchasedAt: time.Now().UTC(),
		}, true, nil).Once()
		d.guard.On("Complete", mock.Anything, userID, "key-1", ticketID).Return(nil).Once()
		d.queue.On("Publish", ctx, mock.MatchedBy(func(e *model.TicketPurchased) bool {
			return e.TicketID == ticketID && e.OrganizerID == organizerID
		})).Return(nil).Once()

		res, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 3, IdempotencyKey: "key-1"})

		require.NoError(t, err)
		assert.False(t, res.Replayed)
		assert.Equal(t, ticketID, res.Ticket.ID)
		assert.True(t, res.Ticket.TotalPrice.Equal(decimal.NewFromInt(60)))
		d.assertAll(t)
	})

	t.Run("Success - no idempotency key skips the guard", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, userID := mocks.NewSession(model.RoleAttendee)

		d.tx.On("WithinTx", ctx).Return(nil).Once()
		d.events.On("FindPricingForShare", ctx, mock.Anything, eventID).Return(decimal.RequireFromString("12.50"), organizerID, nil).Once()
		d.tickets.On("Create", ctx, mock.Anything, mock.MatchedBy(func(row *model.Ticket) bool {
			return row.IdempotencyKey == nil && row.TotalPrice.Equal(decimal.NewFromInt(25))
		})).Return(&model.Ticket{ID: uuid.New(), EventID: eventID, UserID: userID, OrganizerID: organizerID, Quantity: 2, TotalPrice: decimal.NewFromInt(25)}, true, nil).Once()
		d.queue.On("Publish", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 2})

		require.NoError(t, err)
		d.guard.AssertNotCalled(t, "Acquire")
		d.assertAll(t)
	})

	t.Run("Failed - ErrEventNotFound writes no row", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, userID := mocks.NewSession(model.RoleAttendee)

		d.guard.On("Acquire", ctx, userID, "key-2").Return(cache.GuardResult{State: cache.GuardAcquired}, nil).Once()
		d.tx.On("WithinTx", ctx).Return(nil).Once()
		d.events.On("FindPricingForShare", ctx, mock.Anything, eventID).Return(decimal.Zero, uuid.Nil, apperrors.ErrEventNotFound).Once()
		d.guard.On("Release", mock.Anything, userID, "key-2").Return(nil).Once()

		_, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 1, IdempotencyKey: "key-2"})

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		d.tickets.AssertNotCalled(t, "Create")
		d.queue.AssertNotCalled(t, "Publish")
		d.assertAll(t)
	})

	t.Run("Replay - completed key returns the original ticket", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, userID := mocks.NewSession(model.RoleAttendee)
		original := &model.Ticket{ID: uuid.New(), EventID: eventID, UserID: userID, Quantity: 3, TotalPrice: decimal.NewFromInt(60)}

		d.guard.On("Acquire", ctx, userID, "key-3").Return(cache.GuardResult{State: cache.GuardCompleted, TicketID: original.ID}, nil).Once()
		d.tickets.On("FindByID", ctx, original.ID).Return(original, nil).Once()

		res, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 3, IdempotencyKey: "key-3"})

		require.NoError(t, err)
		assert.True(t, res.Replayed)
		assert.Equal(t, original.ID, res.Ticket.ID)
		d.tx.AssertNotCalled(t, "WithinTx")
		d.assertAll(t)
	})

	t.Run("Replay - unique index conflict is not republished", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, userID := mocks.NewSession(model.RoleAttendee)
		existing := &model.Ticket{ID: uuid.New(), EventID: eventID, UserID: userID, Quantity: 1, TotalPrice: decimal.NewFromInt(20)}

		d.guard.On("Acquire", ctx, userID, "key-4").Return(cache.GuardResult{State: cache.GuardAcquired}, nil).Once()
		d.tx.On("WithinTx", ctx).Return(nil).Once()
		d.events.On("FindPricingForShare", ctx, mock.Anything, eventID).Return(decimal.NewFromInt(20), organizerID, nil).Once()
		d.tickets.On("Create", ctx, mock.Anything, mock.Anything).Return(existing, false, nil).Once()
		d.guard.On("Complete", mock.Anything, userID, "key-4", existing.ID).Return(nil).Once()

		res, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 1, IdempotencyKey: "key-4"})

		require.NoError(t, err)
		assert.True(t, res.Replayed)
		d.queue.AssertNotCalled(t, "Publish")
		d.assertAll(t)
	})

	t.Run("Success - guard outage still purchases through the database", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, userID := mocks.NewSession(model.RoleAttendee)
		ticketID := uuid.New()

		d.guard.On("Acquire", ctx, userID, "key-6").Return(cache.GuardResult{}, errors.New("dial tcp: connection refused")).Once()
		d.tx.On("WithinTx", ctx).Return(nil).Once()
		d.events.On("FindPricingForShare", ctx, mock.Anything, eventID).Return(decimal.NewFromInt(20), organizerID, nil).Once()
		d.tickets.On("Create", ctx, mock.Anything, mock.MatchedBy(func(row *model.Ticket) bool {
			return row.IdempotencyKey != nil && *row.IdempotencyKey == "key-6"
		})).Return(&model.Ticket{ID: ticketID, EventID: eventID, UserID: userID, OrganizerID: organizerID, Quantity: 2, TotalPrice: decimal.NewFromInt(40)}, true, nil).Once()
		d.queue.On("Publish", ctx, mock.Anything).Return(nil).Once()

		res, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 2, IdempotencyKey: "key-6"})

		require.NoError(t, err)
		assert.Equal(t, ticketID, res.Ticket.ID)
		d.guard.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		d.guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
		d.assertAll(t)
	})

	t.Run("Failed - completed key reused for another event", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, userID := mocks.NewSession(model.RoleAttendee)
		original := &model.Ticket{ID: uuid.New(), EventID: eventID, UserID: userID, Quantity: 1, TotalPrice: decimal.NewFromInt(20)}

		d.guard.On("Acquire", ctx, userID, "key-7").Return(cache.GuardResult{State: cache.GuardCompleted, TicketID: original.ID}, nil).Once()
		d.tickets.On("FindByID", ctx, original.ID).Return(original, nil).Once()

		_, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: uuid.New(), Quantity: 7, IdempotencyKey: "key-7"})

		assert.ErrorIs(t, err, apperrors.ErrIdempotencyReused)
		d.tx.AssertNotCalled(t, "WithinTx")
		d.assertAll(t)
	})

	t.Run("Failed - conflicting key with another quantity", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, userID := mocks.NewSession(model.RoleAttendee)
		existing := &model.Ticket{ID: uuid.New(), EventID: eventID, UserID: userID, Quantity: 1, TotalPrice: decimal.NewFromInt(20)}

		d.guard.On("Acquire", ctx, userID, "key-8").Return(cache.GuardResult{State: cache.GuardAcquired}, nil).Once()
		d.tx.On("WithinTx", ctx).Return(nil).Once()
		d.events.On("FindPricingForShare", ctx, mock.Anything, eventID).Return(decimal.NewFromInt(20), organizerID, nil).Once()
		d.tickets.On("Create", ctx, mock.Anything, mock.Anything).Return(existing, false, nil).Once()
		d.guard.On("Complete", mock.Anything, userID, "key-8", existing.ID).Return(nil).Once()

		_, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 4, IdempotencyKey: "key-8"})

		assert.ErrorIs(t, err, apperrors.ErrIdempotencyReused)
		d.queue.AssertNotCalled(t, "Publish")
		d.assertAll(t)
	})

	t.Run("Failed - ErrPurchaseInProgress", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, userID := mocks.NewSession(model.RoleAttendee)

		d.guard.On("Acquire", ctx, userID, "key-5").Return(cache.GuardResult{State: cache.GuardInFlight}, nil).Once()

		_, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 1, IdempotencyKey: "key-5"})

		assert.ErrorIs(t, err, apperrors.ErrPurchaseInProgress)
		d.assertAll(t)
	})

	t.Run("Success - publish failure does not fail the purchase", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, userID := mocks.NewSession(model.RoleAttendee)

		d.tx.On("WithinTx", ctx).Return(nil).Once()
		d.events.On("FindPricingForShare", ctx, mock.Anything, eventID).Return(decimal.NewFromInt(20), organizerID, nil).Once()
		d.tickets.On("Create", ctx, mock.Anything, mock.Anything).Return(&model.Ticket{ID: uuid.New(), UserID: userID, Quantity: 1, TotalPrice: decimal.NewFromInt(20)}, true, nil).Once()
		d.queue.On("Publish", ctx, mock.Anything).Return(assert.AnError).Once()

		res, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 1})

		require.NoError(t, err)
		assert.NotNil(t, res.Ticket)
		d.assertAll(t)
	})

	t.Run("Failed - organizer cannot purchase", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, _ := mocks.NewSession(model.RoleOrganizer)

		_, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 1})

		assert.ErrorIs(t, err, apperrors.ErrForbiddenRole)
		d.tx.AssertNotCalled(t, "WithinTx")
	})

	t.Run("Failed - anonymous is rejected", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, _ := mocks.NewSession(model.RoleAnonymous)

		_, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: 1})

		assert.ErrorIs(t, err, apperrors.ErrAuthRejected)
		d.tx.AssertNotCalled(t, "WithinTx")
	})

	t.Run("Failed - quantity out of range", func(t *testing.T) {
		svc, d := setupPurchase()
		sess, _ := mocks.NewSession(model.RoleAttendee)

		for _, qty := range []int{0, -1, model.MaxTicketQuantity + 1} {
			_, err := svc.Purchase(ctx, sess, model.PurchaseParams{EventID: eventID, Quantity: qty})
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "quantity %d", qty)
		}
		d.tx.AssertNotCalled(t, "WithinTx")
	})
}
