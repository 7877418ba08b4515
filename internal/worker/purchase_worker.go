package worker

import (
	"context"

	"ticketify/internal/cache"
	"ticketify/internal/metrics"
	"ticketify/internal/queue"
	"ticketify/pkg/logger"

	"go.uber.org/zap"
)

type PurchaseWorker interface {
	// Subscribe to the purchase queue and process until ctx is done
	Start(ctx context.Context) error
}

// PurchaseWorkerImpl drops an organizer's cached stats after every committed sale.
type PurchaseWorkerImpl struct {
	stats cache.StatsCache
	queue queue.PurchaseQueue
}

func NewPurchaseWorker(stats cache.StatsCache, queue queue.PurchaseQueue) PurchaseWorker {
	return &PurchaseWorkerImpl{
		stats: stats,
		queue: queue,
	}
}

func (w *PurchaseWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	log := logger.WithComponent("worker")
	go func() {
		for msg := range msgs {
			err := w.stats.Invalidate(ctx, msg.Data.OrganizerID)
			metrics.ObservePurchaseEvent(err)

			if err != nil {
				log.Warn("invalidate organizer stats failed",
					zap.String("ticket_id", msg.Data.TicketID.String()),
					zap.String("organizer_id", msg.Data.OrganizerID.String()),
					zap.Error(err))
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}
