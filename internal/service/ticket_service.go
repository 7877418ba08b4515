package service

import (
	"context"

	"ticketify/internal/issuance"
	"ticketify/internal/metrics"
	"ticketify/internal/model"
	"ticketify/internal/repository"
	"ticketify/internal/session"

	"github.com/google/uuid"
)

type IssuedTicket struct {
	Filename string
	PDF      []byte
}

type TicketService interface {
	ListMine(ctx context.Context, sess *session.Session) ([]*model.TicketWithEvent, error)
	// Issue renders the caller's own ticket. Nothing is recorded about the download.
	Issue(ctx context.Context, sess *session.Session, ticketID uuid.UUID) (*IssuedTicket, error)
}

type TicketServiceImpl struct {
	repo repository.TicketRepository
}

func NewTicketService(repo repository.TicketRepository) TicketService {
	return &TicketServiceImpl{repo: repo}
}

func (s *TicketServiceImpl) ListMine(ctx context.Context, sess *session.Session) ([]*model.TicketWithEvent, error) {
	userID, _, err := requireSignedIn(sess)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *TicketServiceImpl) Issue(ctx context.Context, sess *session.Session, ticketID uuid.UUID) (*IssuedTicket, error) {
	userID, _, err := requireSignedIn(sess)
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.FindByIDForUser(ctx, ticketID, userID)
	if err != nil {
		return nil, err
	}

	pdf, err := issuance.Render(issuance.DocumentFor(ticket))
	metrics.ObserveIssuance(err)
	if err != nil {
		return nil, err
	}

	return &IssuedTicket{
		Filename: issuance.Filename(ticket.EventTitle),
		PDF:      pdf,
	}, nil
}
