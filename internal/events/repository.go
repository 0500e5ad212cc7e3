package events

import (
	"context"
	"errors"
	"fmt"

	"eventure/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID, query EventListQuery) ([]Event, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error

	CreateTicketType(ctx context.Context, ticketType *TicketType) error
	SumTicketTypeSeats(ctx context.Context, eventID uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("TicketTypes").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "event not found")
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("TicketTypes").
		Where("slug = ?", slug).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "event not found")
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&Event{}), query)
}

func (r *repository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID, query EventListQuery) ([]Event, int64, error) {
	base := r.db.WithContext(ctx).Model(&Event{}).Where("organizer_id = ?", organizerID)
	return r.list(ctx, base, query)
}

func (r *repository) list(ctx context.Context, base *gorm.DB, query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}
	if query.Search != "" {
		base = base.Where("title ILIKE ?", "%"+query.Search+"%")
	}

	if err := base.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := base.
		Preload("TicketTypes").
		Order("starts_at ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error

	return events, totalCount, err
}

// UpdateStatus transitions the event status with a guard on the current
// status so concurrent transitions cannot both apply.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error {
	result := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return fmt.Errorf("failed to update event status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindInvalidState, "event is not %s", from)
	}
	return nil
}

func (r *repository) CreateTicketType(ctx context.Context, ticketType *TicketType) error {
	return r.db.WithContext(ctx).Create(ticketType).Error
}

func (r *repository) SumTicketTypeSeats(ctx context.Context, eventID uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&TicketType{}).
		Where("event_id = ?", eventID).
		Select("COALESCE(SUM(total_seats), 0)").
		Scan(&sum).Error
	return sum, err
}
