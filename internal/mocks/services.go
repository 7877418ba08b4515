package mocks

import (
	"context"
	"io"

	"ticketify/internal/model"
	"ticketify/internal/service"
	"ticketify/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) ListMine(ctx context.Context, sess *session.Session) ([]*model.Event, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) Create(ctx context.Context, sess *session.Session, req model.CreateEventRequest) (*model.Event, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Update(ctx context.Context, sess *session.Session, id uuid.UUID, req model.UpdateEventRequest) (*model.Event, error) {
	args := m.Called(ctx, sess, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Delete(ctx context.Context, sess *session.Session, id uuid.UUID) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *EventServiceMock) UploadImage(ctx context.Context, sess *session.Session, id uuid.UUID, contentType string, data io.Reader) (*model.Event, error) {
	args := m.Called(ctx, sess, id, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

type ProfileServiceMock struct {
	mock.Mock
}

func NewProfileServiceMock() *ProfileServiceMock {
	return &ProfileServiceMock{}
}

func (m *ProfileServiceMock) EnsureProfile(ctx context.Context, identity *model.Identity, fullName string) (*model.Profile, error) {
	args := m.Called(ctx, identity, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *ProfileServiceMock) GetMyProfile(ctx context.Context, sess *session.Session) (*model.Profile, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *ProfileServiceMock) UpdateMyProfile(ctx context.Context, sess *session.Session, req model.UpdateProfileRequest) (*model.Profile, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

type PurchaseServiceMock struct {
	mock.Mock
}

func NewPurchaseServiceMock() *PurchaseServiceMock {
	return &PurchaseServiceMock{}
}

func (m *PurchaseServiceMock) Purchase(ctx context.Context, sess *session.Session, params model.PurchaseParams) (*model.PurchaseResult, error) {
	args := m.Called(ctx, sess, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurchaseResult), args.Error(1)
}

type TicketServiceMock struct {
	mock.Mock
}

func NewTicketServiceMock() *TicketServiceMock {
	return &TicketServiceMock{}
}

func (m *TicketServiceMock) ListMine(ctx context.Context, sess *session.Session) ([]*model.TicketWithEvent, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TicketWithEvent), args.Error(1)
}

func (m *TicketServiceMock) Issue(ctx context.Context, sess *session.Session, ticketID uuid.UUID) (*service.IssuedTicket, error) {
	args := m.Called(ctx, sess, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IssuedTicket), args.Error(1)
}

type StatsServiceMock struct {
	mock.Mock
}

func NewStatsServiceMock() *StatsServiceMock {
	return &StatsServiceMock{}
}

func (m *StatsServiceMock) ForOrganizer(ctx context.Context, sess *session.Session) (*model.OrganizerStats, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrganizerStats), args.Error(1)
}
