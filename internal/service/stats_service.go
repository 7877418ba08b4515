package service

import (
	"context"

	"ticketify/internal/cache"
	"ticketify/internal/model"
	"ticketify/internal/repository"
	"ticketify/internal/session"
	"ticketify/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type StatsService interface {
	ForOrganizer(ctx context.Context, sess *session.Session) (*model.OrganizerStats, error)
}

type StatsServiceImpl struct {
	eventRepository  repository.EventRepository
	ticketRepository repository.TicketRepository
	cache            cache.StatsCache
}

func NewStatsService(eventRepository repository.EventRepository, ticketRepository repository.TicketRepository, statsCache cache.StatsCache) StatsService {
	return &StatsServiceImpl{
		eventRepository:  eventRepository,
		ticketRepository: ticketRepository,
		cache:            statsCache,
	}
}

func (s *StatsServiceImpl) ForOrganizer(ctx context.Context, sess *session.Session) (*model.OrganizerStats, error) {
	organizerID, err := requireOrganizer(sess)
	if err != nil {
		return nil, err
	}
	log := logger.WithComponent("service").With(zap.String("organizer_id", organizerID.String()))

	if stats, ok, err := s.cache.Get(ctx, organizerID); err != nil {
		log.Warn("stats cache read failed", zap.Error(err))
	} else if ok {
		return stats, nil
	}

	// read before the ledger so a purchase committed meanwhile rejects our Set
	generation, genErr := s.cache.Generation(ctx, organizerID)
	if genErr != nil {
		log.Warn("stats cache generation read failed", zap.Error(genErr))
	}

	events, err := s.eventRepository.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	tickets, err := s.ticketRepository.ListByEventIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	stats := AggregateOrganizerStats(events, tickets)
	if genErr == nil {
		if err := s.cache.Set(ctx, organizerID, generation, stats); err != nil {
			log.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// AggregateOrganizerStats sums tickets per event, keeping the order of events.
// Tickets whose event is not in events are ignored.
func AggregateOrganizerStats(events []*model.Event, tickets []*model.Ticket) *model.OrganizerStats {
	stats := &model.OrganizerStats{
		TotalEvents:  len(events),
		TotalRevenue: decimal.Zero,
		PerEvent:     make([]model.EventStats, len(events)),
	}

	index := make(map[uuid.UUID]int, len(events))
	for i, e := range events {
		index[e.ID] = i
		stats.PerEvent[i] = model.EventStats{
			EventID: e.ID,
			Title:   e.Title,
			Revenue: decimal.Zero,
		}
	}

	for _, t := range tickets {
		i, ok := index[t.EventID]
		if !ok {
			continue
		}
		stats.PerEvent[i].TicketsSold += t.Quantity
		stats.PerEvent[i].Revenue = stats.PerEvent[i].Revenue.Add(t.TotalPrice)
		stats.TicketsSold += t.Quantity
		stats.TotalRevenue = stats.TotalRevenue.Add(t.TotalPrice)
	}

	return stats
}
