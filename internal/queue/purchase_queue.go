package queue

import (
	"context"
	"errors"

	"ticketify/internal/model"
)

var ErrQueueClosed = errors.New("queue closed")

type Delivery struct {
	Data *model.TicketPurchased
	Ack  func()
	Nack func(requeue bool)
}

type PurchaseQueue interface {
	// Publish a committed purchase to the queue
	Publish(ctx context.Context, event *model.TicketPurchased) error
	// Subscribe to purchase events; the channel closes when ctx is done
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryPurchaseQueueImpl is a channel-backed queue for single-process runs and tests.
type MemoryPurchaseQueueImpl struct {
	ch chan *model.TicketPurchased
}

func NewMemoryPurchaseQueue(bufferSize int) PurchaseQueue {
	return &MemoryPurchaseQueueImpl{
		ch: make(chan *model.TicketPurchased, bufferSize),
	}
}

func (q *MemoryPurchaseQueueImpl) Publish(ctx context.Context, event *model.TicketPurchased) error {
	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryPurchaseQueueImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-q.ch:
				d := Delivery{
					Data: event,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							select {
							case q.ch <- event:
							default:
							}
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
