package mocks

import (
	"context"
	"io"

	"ticketify/internal/cache"
	"ticketify/internal/model"
	"ticketify/internal/queue"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// TransactorMock runs fn with a nil tx; repository mocks ignore it.
type TransactorMock struct {
	mock.Mock
}

func NewTransactorMock() *TransactorMock {
	return &TransactorMock{}
}

func (m *TransactorMock) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}

type PurchaseGuardMock struct {
	mock.Mock
}

func NewPurchaseGuardMock() *PurchaseGuardMock {
	return &PurchaseGuardMock{}
}

func (m *PurchaseGuardMock) Acquire(ctx context.Context, userID uuid.UUID, key string) (cache.GuardResult, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(cache.GuardResult), args.Error(1)
}

func (m *PurchaseGuardMock) Complete(ctx context.Context, userID uuid.UUID, key string, ticketID uuid.UUID) error {
	args := m.Called(ctx, userID, key, ticketID)
	return args.Error(0)
}

func (m *PurchaseGuardMock) Release(ctx context.Context, userID uuid.UUID, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

type StatsCacheMock struct {
	mock.Mock
}

func NewStatsCacheMock() *StatsCacheMock {
	return &StatsCacheMock{}
}

func (m *StatsCacheMock) Get(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, bool, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.OrganizerStats), args.Bool(1), args.Error(2)
}

func (m *StatsCacheMock) Generation(ctx context.Context, organizerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, organizerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StatsCacheMock) Set(ctx context.Context, organizerID uuid.UUID, generation int64, stats *model.OrganizerStats) error {
	args := m.Called(ctx, organizerID, generation, stats)
	return args.Error(0)
}

func (m *StatsCacheMock) Invalidate(ctx context.Context, organizerID uuid.UUID) error {
	args := m.Called(ctx, organizerID)
	return args.Error(0)
}

type PurchaseQueueMock struct {
	mock.Mock
}

func NewPurchaseQueueMock() *PurchaseQueueMock {
	return &PurchaseQueueMock{}
}

func (m *PurchaseQueueMock) Publish(ctx context.Context, event *model.TicketPurchased) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *PurchaseQueueMock) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}

type ImageStoreMock struct {
	mock.Mock
}

func NewImageStoreMock() *ImageStoreMock {
	return &ImageStoreMock{}
}

func (m *ImageStoreMock) Upload(ctx context.Context, path string, contentType string, data io.Reader) (string, error) {
	args := m.Called(ctx, path, contentType, data)
	return args.String(0), args.Error(1)
}
