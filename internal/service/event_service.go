package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"ticketify/internal/cache"
	"ticketify/internal/model"
	"ticketify/internal/repository"
	"ticketify/internal/session"
	"ticketify/internal/storage"
	apperrors "ticketify/pkg/app_errors"
	"ticketify/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListMine(ctx context.Context, sess *session.Session) ([]*model.Event, error)
	Create(ctx context.Context, sess *session.Session, req model.CreateEventRequest) (*model.Event, error)
	Update(ctx context.Context, sess *session.Session, id uuid.UUID, req model.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, sess *session.Session, id uuid.UUID) error
	UploadImage(ctx context.Context, sess *session.Session, id uuid.UUID, contentType string, data io.Reader) (*model.Event, error)
}

type EventServiceImpl struct {
	repo       repository.EventRepository
	images     storage.ImageStore
	statsCache cache.StatsCache
	now        func() time.Time
}

func NewEventService(repo repository.EventRepository, images storage.ImageStore, statsCache cache.StatsCache) EventService {
	return &EventServiceImpl{
		repo:       repo,
		images:     images,
		statsCache: statsCache,
		now:        time.Now,
	}
}

func (s *EventServiceImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	if filter.Category != nil && !filter.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrInvalidInput, *filter.Category)
	}
	return s.repo.List(ctx, filter)
}

func (s *EventServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EventServiceImpl) ListMine(ctx context.Context, sess *session.Session) ([]*model.Event, error) {
	organizerID, err := requireOrganizer(sess)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByOrganizer(ctx, organizerID)
}

func (s *EventServiceImpl) Create(ctx context.Context, sess *session.Session, req model.CreateEventRequest) (*model.Event, error) {
	organizerID, err := requireOrganizer(sess)
	if err != nil {
		return nil, err
	}
	if !req.Category.IsValid() || req.Price.IsNegative() {
		return nil, apperrors.ErrInvalidInput
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be %s", apperrors.ErrInvalidInput, model.DateLayout)
	}

	event, err := s.repo.Create(ctx, &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		Price:       req.Price.Round(2),
		Category:    req.Category,
		OrganizerID: organizerID,
	})
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, organizerID)
	return event, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, sess *session.Session, id uuid.UUID, req model.UpdateEventRequest) (*model.Event, error) {
	organizerID, err := requireOrganizer(sess)
	if err != nil {
		return nil, err
	}

	params := model.UpdateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
	}
	if req.Date != nil {
		date, err := model.ParseDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be %s", apperrors.ErrInvalidInput, model.DateLayout)
		}
		params.Date = &date
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperrors.ErrInvalidInput
		}
		price := req.Price.Round(2)
		params.Price = &price
	}
	if params.Category != nil && !params.Category.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}
	if params.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.repo.Update(ctx, id, organizerID, params)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, organizerID)
	return event, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, sess *session.Session, id uuid.UUID) error {
	organizerID, err := requireOrganizer(sess)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, organizerID); err != nil {
		return err
	}
	s.invalidateStats(ctx, organizerID)
	return nil
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ImagePath is the object path of an event banner: <organizer>/<event>-<unix>.<ext>.
func ImagePath(organizerID, eventID uuid.UUID, ext string, at time.Time) string {
	return fmt.Sprintf("%s/%s-%d.%s", organizerID, eventID, at.Unix(), ext)
}

func (s *EventServiceImpl) UploadImage(ctx context.Context, sess *session.Session, id uuid.UUID, contentType string, data io.Reader) (*model.Event, error) {
	organizerID, err := requireOrganizer(sess)
	if err != nil {
		return nil, err
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %q", apperrors.ErrInvalidInput, contentType)
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, fmt.Errorf("%w: event is owned by another organizer", apperrors.ErrWriteRejected)
	}

	url, err := s.images.Upload(ctx, ImagePath(organizerID, id, ext, s.now()), contentType, data)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, organizerID, model.UpdateEventParams{ImageURL: &url})
}

func (s *EventServiceImpl) invalidateStats(ctx context.Context, organizerID uuid.UUID) {
	if err := s.statsCache.Invalidate(ctx, organizerID); err != nil {
		logger.WithComponent("service").Warn("stats cache invalidation failed",
			zap.String("organizer_id", organizerID.String()), zap.Error(err))
	}
}
