package service

import (
	"context"
	"errors"
	"fmt"

	"ticketify/internal/cache"
	"ticketify/internal/database"
	"ticketify/internal/metrics"
	"ticketify/internal/model"
	"ticketify/internal/queue"
	"ticketify/internal/repository"
	"ticketify/internal/session"
	apperrors "ticketify/pkg/app_errors"
	"ticketify/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxIdempotencyKeyLen = 128

type PurchaseService interface {
	// Purchase reads the event price and appends the ledger row in one transaction.
	// A repeated idempotency key returns the original ticket instead of a new row.
	Purchase(ctx context.Context, sess *session.Session, params model.PurchaseParams) (*model.PurchaseResult, error)
}

type PurchaseServiceImpl struct {
	tx               database.Transactor
	eventRepository  repository.EventRepository
	ticketRepository repository.TicketRepository
	guard            cache.PurchaseGuard
	purchaseQueue    queue.PurchaseQueue
}

func NewPurchaseService(
	tx database.Transactor,
	eventRepository repository.EventRepository,
	ticketRepository repository.TicketRepository,
	guard cache.PurchaseGuard,
	purchaseQueue queue.PurchaseQueue,
) PurchaseService {
	return &PurchaseServiceImpl{
		tx:               tx,
		eventRepository:  eventRepository,
		ticketRepository: ticketRepository,
		guard:            guard,
		purchaseQueue:    purchaseQueue,
	}
}

func (s *PurchaseServiceImpl) Purchase(ctx context.Context, sess *session.Session, params model.PurchaseParams) (*model.PurchaseResult, error) {
	userID, err := requireAttendee(sess)
	if err != nil {
		metrics.ObservePurchase(metrics.PurchaseRejected, 0, decimal.Zero)
		return nil, err
	}
	if params.Quantity < model.MinTicketQuantity || params.Quantity > model.MaxTicketQuantity {
		metrics.ObservePurchase(metrics.PurchaseRejected, 0, decimal.Zero)
		return nil, fmt.Errorf("%w: quantity must be between %d and %d",
			apperrors.ErrInvalidInput, model.MinTicketQuantity, model.MaxTicketQuantity)
	}
	if len(params.IdempotencyKey) > maxIdempotencyKeyLen {
		metrics.ObservePurchase(metrics.PurchaseRejected, 0, decimal.Zero)
		return nil, fmt.Errorf("%w: idempotency key too long", apperrors.ErrInvalidInput)
	}

	log := logger.WithComponent("service").With(
		zap.String("operation", "Purchase"),
		zap.String("user_id", userID.String()),
		zap.String("event_id", params.EventID.String()))

	// 1. Deduplicate in Redis before touching the database
	key := params.IdempotencyKey
	guarded := false
	if key != "" {
		res, err := s.guard.Acquire(ctx, userID, key)
		if err != nil {
			// the unique index on (user_id, idempotency_key) still deduplicates
			log.Warn("idempotency guard unavailable", zap.Error(err))
		} else {
			switch res.State {
			case cache.GuardCompleted:
				ticket, err := s.ticketRepository.FindByID(ctx, res.TicketID)
				if err != nil {
					return nil, err
				}
				return replay(ticket, params)
			case cache.GuardInFlight:
				metrics.ObservePurchase(metrics.PurchaseRejected, 0, decimal.Zero)
				return nil, apperrors.ErrPurchaseInProgress
			case cache.GuardAcquired:
				guarded = true
			}
		}
	}

	// 2. Price read and ledger append in one transaction
	var ticket *model.Ticket
	var created bool
	err = s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		price, organizerID, err := s.eventRepository.FindPricingForShare(ctx, tx, params.EventID)
		if err != nil {
			return err
		}

		row := &model.Ticket{
			EventID:     params.EventID,
			UserID:      userID,
			OrganizerID: organizerID,
			Quantity:    params.Quantity,
			UnitPrice:   price,
			TotalPrice:  price.Mul(decimal.NewFromInt(int64(params.Quantity))),
		}
		if key != "" {
			row.IdempotencyKey = &key
		}

		ticket, created, err = s.ticketRepository.Create(ctx, tx, row)
		return err
	})
	if err != nil {
		if guarded {
			// release with a fresh context so a cancelled request still frees the key
			if rerr := s.guard.Release(context.Background(), userID, key); rerr != nil {
				log.Warn("release idempotency guard failed", zap.Error(rerr))
			}
		}
		if errors.Is(err, apperrors.ErrEventNotFound) || errors.Is(err, apperrors.ErrWriteRejected) {
			metrics.ObservePurchase(metrics.PurchaseRejected, 0, decimal.Zero)
		} else {
			metrics.ObservePurchase(metrics.PurchaseFailed, 0, decimal.Zero)
		}
		return nil, err
	}

	if guarded {
		if err := s.guard.Complete(context.Background(), userID, key, ticket.ID); err != nil {
			// the unique index still deduplicates
			log.Warn("complete idempotency guard failed", zap.Error(err))
		}
	}

	if !created {
		return replay(ticket, params)
	}

	metrics.ObservePurchase(metrics.PurchaseCreated, ticket.Quantity, ticket.TotalPrice)
	log.Info("ticket purchased",
		zap.String("ticket_id", ticket.ID.String()),
		zap.Int("quantity", ticket.Quantity),
		zap.String("total_price", ticket.TotalPrice.StringFixed(2)))

	// 3. Notify consumers; the ledger row is already committed
	if err := s.purchaseQueue.Publish(ctx, purchasedEvent(ticket)); err != nil {
		log.Error("publish purchase event failed", zap.String("ticket_id", ticket.ID.String()), zap.Error(err))
	}

	return &model.PurchaseResult{Ticket: ticket}, nil
}

// replay returns the ticket already stored under the request's idempotency key,
// provided it was bought for the same event and quantity.
func replay(ticket *model.Ticket, params model.PurchaseParams) (*model.PurchaseResult, error) {
	if ticket.EventID != params.EventID || ticket.Quantity != params.Quantity {
		metrics.ObservePurchase(metrics.PurchaseRejected, 0, decimal.Zero)
		return nil, apperrors.ErrIdempotencyReused
	}
	metrics.ObservePurchase(metrics.PurchaseReplayed, ticket.Quantity, ticket.TotalPrice)
	return &model.PurchaseResult{Ticket: ticket, Replayed: true}, nil
}

func purchasedEvent(t *model.Ticket) *model.TicketPurchased {
	return &model.TicketPurchased{
		TicketID:    t.ID,
		EventID:     t.EventID,
		OrganizerID: t.OrganizerID,
		UserID:      t.UserID,
		Quantity:    t.Quantity,
		TotalPrice:  t.TotalPrice,
		PurchasedAt: t.PurchasedAt,
	}
}

