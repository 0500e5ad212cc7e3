package events

import (
	"context"
	"testing"
	"time"

	"eventure/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	events      map[uuid.UUID]*Event
	ticketTypes []TicketType
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: map[uuid.UUID]*Event{}}
}

func (f *fakeRepo) Create(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	stored := *event
	f.events[event.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	stored, ok := f.events[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "event not found")
	}
	out := *stored
	out.TicketTypes = nil
	for _, tt := range f.ticketTypes {
		if tt.EventID == id {
			out.TicketTypes = append(out.TicketTypes, tt)
		}
	}
	return &out, nil
}

func (f *fakeRepo) GetBySlug(ctx context.Context, slug string) (*Event, error) {
	for id, stored := range f.events {
		if stored.Slug == slug {
			return f.GetByID(ctx, id)
		}
	}
	return nil, apperrors.New(apperrors.KindNotFound, "event not found")
}

func (f *fakeRepo) List(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	var out []Event
	for _, stored := range f.events {
		if query.Status != "" && string(stored.Status) != query.Status {
			continue
		}
		out = append(out, *stored)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) ListByOrganizer(ctx context.Context, organizerID uuid.UUID, query EventListQuery) ([]Event, int64, error) {
	var out []Event
	for _, stored := range f.events {
		if stored.OrganizerID == organizerID {
			out = append(out, *stored)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error {
	stored, ok := f.events[id]
	if !ok || stored.Status != from {
		return apperrors.Newf(apperrors.KindInvalidState, "event is not %s", from)
	}
	stored.Status = to
	return nil
}

func (f *fakeRepo) CreateTicketType(ctx context.Context, ticketType *TicketType) error {
	if ticketType.ID == uuid.Nil {
		ticketType.ID = uuid.New()
	}
	f.ticketTypes = append(f.ticketTypes, *ticketType)
	return nil
}

func (f *fakeRepo) SumTicketTypeSeats(ctx context.Context, eventID uuid.UUID) (int, error) {
	sum := 0
	for _, tt := range f.ticketTypes {
		if tt.EventID == eventID {
			sum += tt.TotalSeats
		}
	}
	return sum, nil
}

func validCreateRequest() CreateEventRequest {
	starts := time.Now().AddDate(0, 1, 0)
	return CreateEventRequest{
		Title:      "Jakarta Jazz Festival",
		Location:   "JIExpo Kemayoran",
		StartsAt:   starts,
		EndsAt:     starts.Add(8 * time.Hour),
		BasePrice:  150000,
		TotalSeats: 500,
	}
}

func TestCreateEvent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, time.Minute)
	organizerID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), organizerID, validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, event.Status)
	assert.Equal(t, organizerID, event.OrganizerID)
	assert.Equal(t, 500, event.AvailableSeats)
	assert.Contains(t, event.Slug, "jakarta-jazz-festival-")
}

func TestCreateEventRejectsInvertedWindow(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, time.Minute)

	req := validCreateRequest()
	req.EndsAt = req.StartsAt.Add(-time.Hour)
	_, err := svc.CreateEvent(context.Background(), uuid.New(), req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSlugsAreUniquePerTitle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, time.Minute)

	first, err := svc.CreateEvent(context.Background(), uuid.New(), validCreateRequest())
	require.NoError(t, err)
	second, err := svc.CreateEvent(context.Background(), uuid.New(), validCreateRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.Slug, second.Slug)
}

func TestAddTicketTypeEnforcesCapacity(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, time.Minute)
	organizerID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), organizerID, validCreateRequest())
	require.NoError(t, err)

	_, err = svc.AddTicketType(context.Background(), organizerID, event.ID, CreateTicketTypeRequest{
		Name: "Regular", Price: 150000, TotalSeats: 400,
	})
	require.NoError(t, err)

	// 400 + 150 would exceed the event's 500 seats.
	_, err = svc.AddTicketType(context.Background(), organizerID, event.ID, CreateTicketTypeRequest{
		Name: "VIP", Price: 450000, TotalSeats: 150,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.AddTicketType(context.Background(), organizerID, event.ID, CreateTicketTypeRequest{
		Name: "VIP", Price: 450000, TotalSeats: 100,
	})
	assert.NoError(t, err)
}

func TestAddTicketTypeOwnershipAndState(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, time.Minute)
	organizerID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), organizerID, validCreateRequest())
	require.NoError(t, err)

	req := CreateTicketTypeRequest{Name: "Regular", Price: 150000, TotalSeats: 100}

	_, err = svc.AddTicketType(context.Background(), uuid.New(), event.ID, req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = svc.AddTicketType(context.Background(), organizerID, event.ID, req)
	require.NoError(t, err)

	require.NoError(t, svc.PublishEvent(context.Background(), organizerID, event.ID))
	_, err = svc.AddTicketType(context.Background(), organizerID, event.ID, req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState),
		"published events are no longer editable")
}

func TestPublishRequiresTicketType(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, time.Minute)
	organizerID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), organizerID, validCreateRequest())
	require.NoError(t, err)

	err = svc.PublishEvent(context.Background(), organizerID, event.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestPublishIsOneWay(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, time.Minute)
	organizerID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), organizerID, validCreateRequest())
	require.NoError(t, err)
	_, err = svc.AddTicketType(context.Background(), organizerID, event.ID, CreateTicketTypeRequest{
		Name: "Regular", Price: 150000, TotalSeats: 100,
	})
	require.NoError(t, err)

	require.NoError(t, svc.PublishEvent(context.Background(), organizerID, event.ID))

	err = svc.PublishEvent(context.Background(), organizerID, event.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestCancelRequiresPublished(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, time.Minute)
	organizerID := uuid.New()

	event, err := svc.CreateEvent(context.Background(), organizerID, validCreateRequest())
	require.NoError(t, err)

	err = svc.CancelEvent(context.Background(), organizerID, event.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestListPublishedFiltersDrafts(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, time.Minute)
	organizerID := uuid.New()

	draft, err := svc.CreateEvent(context.Background(), organizerID, validCreateRequest())
	require.NoError(t, err)
	published, err := svc.CreateEvent(context.Background(), organizerID, validCreateRequest())
	require.NoError(t, err)
	_, err = svc.AddTicketType(context.Background(), organizerID, published.ID, CreateTicketTypeRequest{
		Name: "Regular", Price: 150000, TotalSeats: 100,
	})
	require.NoError(t, err)
	require.NoError(t, svc.PublishEvent(context.Background(), organizerID, published.ID))

	result, err := svc.ListPublished(context.Background(), EventListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, published.ID.String(), result.Events[0].ID)
	assert.NotEqual(t, draft.ID.String(), result.Events[0].ID)
}
