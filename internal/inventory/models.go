package inventory

import (
	"time"

	"github.com/google/uuid"
)

// ReservationLine is one (ticket type, quantity) pair of a reservation.
type ReservationLine struct {
	TicketTypeID uuid.UUID
	Quantity     int
}

// Release marks a transaction's inventory as already credited back. The
// primary key on the transaction id is what makes release idempotent:
// a second release attempt conflicts and becomes a no-op.
type Release struct {
	TransactionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ReleasedAt    time.Time `gorm:"not null"`
}

func (Release) TableName() string {
	return "inventory_releases"
}
