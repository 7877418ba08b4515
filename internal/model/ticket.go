package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinTicketQuantity = 1
	MaxTicketQuantity = 10
)

// Ticket is one append-only ledger row. UnitPrice is the event price when the row was written.
type Ticket struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	EventID        uuid.UUID       `json:"event_id" db:"event_id"`
	UserID         uuid.UUID       `json:"user_id" db:"user_id"`
	OrganizerID    uuid.UUID       `json:"organizer_id" db:"organizer_id"`
	Quantity       int             `json:"quantity" db:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price" db:"total_price"`
	IdempotencyKey *string         `json:"-" db:"idempotency_key"`
	PurchasedAt    time.Time       `json:"purchased_at" db:"purchased_at"`
}

// TicketWithEvent is a ledger row joined with the display fields of its event.
type TicketWithEvent struct {
	Ticket
	EventTitle    string `json:"event_title"`
	EventDate     Date   `json:"event_date"`
	EventLocation string `json:"event_location"`
}

type PurchaseTicketRequest struct {
	EventID  string `json:"event_id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=10"`
}

type PurchaseParams struct {
	EventID        uuid.UUID
	Quantity       int
	IdempotencyKey string
}

type PurchaseResult struct {
	Ticket   *Ticket `json:"ticket"`
	Replayed bool    `json:"replayed"`
}

// TicketPurchased is published once per committed ledger row.
type TicketPurchased struct {
	TicketID    uuid.UUID       `json:"ticket_id"`
	EventID     uuid.UUID       `json:"event_id"`
	OrganizerID uuid.UUID       `json:"organizer_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	PurchasedAt time.Time       `json:"purchased_at"`
}
