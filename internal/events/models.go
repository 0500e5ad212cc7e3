package events

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrganizerID    uuid.UUID `json:"organizer_id" gorm:"type:uuid;not null;index"`
	Title          string    `json:"title" gorm:"not null;size:255"`
	Slug           string    `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Description    string    `json:"description" gorm:"type:text"`
	Location       string    `json:"location" gorm:"size:255"`
	StartsAt       time.Time `json:"starts_at" gorm:"not null"`
	EndsAt         time.Time `json:"ends_at" gorm:"not null"`
	BasePrice      int64     `json:"base_price" gorm:"not null;check:base_price >= 0"`
	TotalSeats     int       `json:"total_seats" gorm:"not null;check:total_seats > 0"`
	AvailableSeats int       `json:"available_seats" gorm:"not null;check:available_seats >= 0"`
	Status         Status    `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT'"`

	TicketTypes []TicketType `json:"ticket_types,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type TicketType struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID        uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Name           string    `json:"name" gorm:"not null;size:100"`
	Price          int64     `json:"price" gorm:"not null;check:price >= 0"`
	TotalSeats     int       `json:"total_seats" gorm:"not null;check:total_seats > 0"`
	AvailableSeats int       `json:"available_seats" gorm:"not null;check:available_seats >= 0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

func (TicketType) TableName() string {
	return "ticket_types"
}

type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=255"`
	Description string    `json:"description" validate:"max=2000"`
	Location    string    `json:"location" validate:"max=255"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	BasePrice   int64     `json:"base_price" validate:"min=0"`
	TotalSeats  int       `json:"total_seats" validate:"required,min=1,max=100000"`
}

type CreateTicketTypeRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Price      int64  `json:"price" validate:"min=0"`
	TotalSeats int    `json:"total_seats" validate:"required,min=1"`
}

type EventListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	Status string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED CANCELED"`
}

type EventResponse struct {
	ID             string               `json:"id"`
	OrganizerID    string               `json:"organizer_id"`
	Title          string               `json:"title"`
	Slug           string               `json:"slug"`
	Description    string               `json:"description"`
	Location       string               `json:"location"`
	StartsAt       time.Time            `json:"starts_at"`
	EndsAt         time.Time            `json:"ends_at"`
	BasePrice      int64                `json:"base_price"`
	TotalSeats     int                  `json:"total_seats"`
	AvailableSeats int                  `json:"available_seats"`
	Status         Status               `json:"status"`
	TicketTypes    []TicketTypeResponse `json:"ticket_types"`
	CreatedAt      time.Time            `json:"created_at"`
}

type TicketTypeResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}

func (e *Event) ToResponse() EventResponse {
	ticketTypes := make([]TicketTypeResponse, 0, len(e.TicketTypes))
	for _, tt := range e.TicketTypes {
		ticketTypes = append(ticketTypes, TicketTypeResponse{
			ID:             tt.ID.String(),
			Name:           tt.Name,
			Price:          tt.Price,
			TotalSeats:     tt.TotalSeats,
			AvailableSeats: tt.AvailableSeats,
		})
	}

	return EventResponse{
		ID:             e.ID.String(),
		OrganizerID:    e.OrganizerID.String(),
		Title:          e.Title,
		Slug:           e.Slug,
		Description:    e.Description,
		Location:       e.Location,
		StartsAt:       e.StartsAt,
		EndsAt:         e.EndsAt,
		BasePrice:      e.BasePrice,
		TotalSeats:     e.TotalSeats,
		AvailableSeats: e.AvailableSeats,
		Status:         e.Status,
		TicketTypes:    ticketTypes,
		CreatedAt:      e.CreatedAt,
	}
}
