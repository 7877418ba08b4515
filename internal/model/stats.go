package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventStats struct {
	EventID     uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	TicketsSold int             `json:"tickets_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type OrganizerStats struct {
	TotalEvents  int             `json:"total_events"`
	TicketsSold  int             `json:"tickets_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	PerEvent     []EventStats    `json:"per_event"`
}
