package events

import (
	"context"
	"fmt"
	"time"

	"eventure/internal/shared/apperrors"
	"eventure/internal/shared/constants"
	"eventure/pkg/cache"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Service interface defines the contract for event business logic
type Service interface {
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*Event, error)
	AddTicketType(ctx context.Context, organizerID, eventID uuid.UUID, req CreateTicketTypeRequest) (*TicketType, error)
	PublishEvent(ctx context.Context, organizerID, eventID uuid.UUID) error
	CancelEvent(ctx context.Context, organizerID, eventID uuid.UUID) error

	GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	ListPublished(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	ListOwned(ctx context.Context, organizerID uuid.UUID, query EventListQuery) (*PaginatedEvents, error)

	// GetForBooking returns the raw event for booking-time checks, bypassing
	// the cache so availability is never stale at reservation time.
	GetForBooking(ctx context.Context, id uuid.UUID) (*Event, error)

	// InvalidateCache drops the cached read model after inventory mutation.
	InvalidateCache(ctx context.Context, id uuid.UUID)
}

type service struct {
	repo     Repository
	cache    cache.Service
	cacheTTL time.Duration
}

func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
	}
}

func eventCacheKey(id uuid.UUID) string {
	return constants.BuildEventDetailKey(id.String())
}

func (s *service) CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*Event, error) {
	if !req.StartsAt.Before(req.EndsAt) {
		return nil, apperrors.New(apperrors.KindValidation, "event must start before it ends")
	}
	if req.TotalSeats <= 0 {
		return nil, apperrors.New(apperrors.KindValidation, "total seats must be positive")
	}

	event := &Event{
		OrganizerID:    organizerID,
		Title:          req.Title,
		Slug:           s.buildSlug(req.Title),
		Description:    req.Description,
		Location:       req.Location,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		BasePrice:      req.BasePrice,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Status:         StatusDraft,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// buildSlug derives a URL slug from the title with a short random suffix to
// keep the unique index happy for repeated titles.
func (s *service) buildSlug(title string) string {
	return slug.Make(title) + "-" + uuid.New().String()[:8]
}

func (s *service) AddTicketType(ctx context.Context, organizerID, eventID uuid.UUID, req CreateTicketTypeRequest) (*TicketType, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.OrganizerID != organizerID {
		return nil, apperrors.New(apperrors.KindForbidden, "you do not own this event")
	}
	if !event.Status.IsEditable() {
		return nil, apperrors.New(apperrors.KindInvalidState, "ticket types can only be added while the event is a draft")
	}
	if req.TotalSeats <= 0 {
		return nil, apperrors.New(apperrors.KindValidation, "total seats must be positive")
	}

	// Sum of ticket-type seats must not exceed the event's total seats.
	// Checked at creation time only, not re-enforced continuously.
	existing, err := s.repo.SumTicketTypeSeats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ticket type seats: %w", err)
	}
	if existing+req.TotalSeats > event.TotalSeats {
		return nil, apperrors.Newf(apperrors.KindValidation,
			"ticket type seats would exceed event capacity: %d allocated of %d",
			existing, event.TotalSeats)
	}

	ticketType := &TicketType{
		EventID:        eventID,
		Name:           req.Name,
		Price:          req.Price,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
	}

	if err := s.repo.CreateTicketType(ctx, ticketType); err != nil {
		return nil, fmt.Errorf("failed to create ticket type: %w", err)
	}

	s.InvalidateCache(ctx, eventID)
	return ticketType, nil
}

func (s *service) PublishEvent(ctx context.Context, organizerID, eventID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return apperrors.New(apperrors.KindForbidden, "you do not own this event")
	}
	if len(event.TicketTypes) == 0 {
		return apperrors.New(apperrors.KindValidation, "event needs at least one ticket type before publishing")
	}

	if err := s.repo.UpdateStatus(ctx, eventID, StatusDraft, StatusPublished); err != nil {
		return err
	}

	s.InvalidateCache(ctx, eventID)
	return nil
}

func (s *service) CancelEvent(ctx context.Context, organizerID, eventID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return apperrors.New(apperrors.KindForbidden, "you do not own this event")
	}

	if err := s.repo.UpdateStatus(ctx, eventID, StatusPublished, StatusCanceled); err != nil {
		return err
	}

	s.InvalidateCache(ctx, eventID)
	return nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	key := eventCacheKey(id)

	if s.cache != nil {
		var cached EventResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := event.ToResponse()
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, resp, s.cacheTTL)
	}
	return &resp, nil
}

func (s *service) ListPublished(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	query.Status = string(StatusPublished)
	events, totalCount, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return paginate(events, totalCount, query), nil
}

func (s *service) ListOwned(ctx context.Context, organizerID uuid.UUID, query EventListQuery) (*PaginatedEvents, error) {
	events, totalCount, err := s.repo.ListByOrganizer(ctx, organizerID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned events: %w", err)
	}
	return paginate(events, totalCount, query), nil
}

func (s *service) GetForBooking(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) InvalidateCache(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, eventCacheKey(id))
}

func paginate(events []Event, totalCount int64, query EventListQuery) *PaginatedEvents {
	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	return &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
	}
}
