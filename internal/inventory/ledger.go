package inventory

import (
	"fmt"
	"sort"
	"time"

	"eventure/internal/events"
	"eventure/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger is the only component allowed to mutate seat availability. Both
// methods must be called inside the caller's database transaction so a
// failed booking or rollback never leaves a partial decrement behind.
type Ledger interface {
	// Reserve atomically decrements available seats for every line and for
	// the aggregate event. All-or-nothing: any unsatisfiable line aborts
	// the whole reservation with InsufficientInventory.
	Reserve(tx *gorm.DB, eventID uuid.UUID, lines []ReservationLine) error

	// Release credits the seats back. Idempotent per transaction: the first
	// call wins, later calls return (false, nil) without touching counts.
	Release(tx *gorm.DB, transactionID, eventID uuid.UUID, lines []ReservationLine) (bool, error)
}

type ledger struct{}

func NewLedger() Ledger {
	return &ledger{}
}

func (l *ledger) Reserve(tx *gorm.DB, eventID uuid.UUID, lines []ReservationLine) error {
	if len(lines) == 0 {
		return apperrors.New(apperrors.KindValidation, "reservation needs at least one line item")
	}

	total := 0
	for _, line := range lines {
		if line.Quantity <= 0 {
			return apperrors.New(apperrors.KindValidation, "quantity must be positive")
		}
		total += line.Quantity
	}

	// Lock rows in a stable order so two concurrent reservations for
	// overlapping ticket types cannot deadlock.
	ordered := make([]ReservationLine, len(lines))
	copy(ordered, lines)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].TicketTypeID.String() < ordered[j].TicketTypeID.String()
	})

	for _, line := range ordered {
		result := tx.Model(&events.TicketType{}).
			Where("id = ? AND event_id = ? AND available_seats >= ?",
				line.TicketTypeID, eventID, line.Quantity).
			Update("available_seats", gorm.Expr("available_seats - ?", line.Quantity))
		if result.Error != nil {
			return fmt.Errorf("failed to reserve ticket type %s: %w", line.TicketTypeID, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Newf(apperrors.KindInsufficientInventory,
				"not enough seats available for ticket type %s", line.TicketTypeID)
		}
	}

	result := tx.Model(&events.Event{}).
		Where("id = ? AND available_seats >= ?", eventID, total).
		Update("available_seats", gorm.Expr("available_seats - ?", total))
	if result.Error != nil {
		return fmt.Errorf("failed to reserve event seats: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindInsufficientInventory, "not enough seats available for this event")
	}

	return nil
}

func (l *ledger) Release(tx *gorm.DB, transactionID, eventID uuid.UUID, lines []ReservationLine) (bool, error) {
	// The insert is the idempotency gate: ON CONFLICT DO NOTHING means a
	// transaction whose inventory was already credited inserts zero rows.
	release := Release{
		TransactionID: transactionID,
		EventID:       eventID,
		ReleasedAt:    time.Now().UTC(),
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&release)
	if result.Error != nil {
		return false, fmt.Errorf("failed to record inventory release: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	total := 0
	for _, line := range lines {
		err := tx.Model(&events.TicketType{}).
			Where("id = ?", line.TicketTypeID).
			Update("available_seats", gorm.Expr("available_seats + ?", line.Quantity)).Error
		if err != nil {
			return false, fmt.Errorf("failed to release ticket type %s: %w", line.TicketTypeID, err)
		}
		total += line.Quantity
	}

	err := tx.Model(&events.Event{}).
		Where("id = ?", eventID).
		Update("available_seats", gorm.Expr("available_seats + ?", total)).Error
	if err != nil {
		return false, fmt.Errorf("failed to release event seats: %w", err)
	}

	return true, nil
}
