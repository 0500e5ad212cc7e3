package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds constraints and indexes AutoMigrate cannot
// express. Availability may never go negative even if application-level
// guards regress.
func MigrateConstraints(db *gorm.DB) error {
	statements := []string{
		`ALTER TABLE ticket_types
			DROP CONSTRAINT IF EXISTS chk_ticket_types_available_seats;`,
		`ALTER TABLE ticket_types
			ADD CONSTRAINT chk_ticket_types_available_seats
			CHECK (available_seats >= 0 AND available_seats <= total_seats);`,

		`ALTER TABLE events
			DROP CONSTRAINT IF EXISTS chk_events_available_seats;`,
		`ALTER TABLE events
			ADD CONSTRAINT chk_events_available_seats
			CHECK (available_seats >= 0 AND available_seats <= total_seats);`,

		// The expiry sweep scans pending transactions by deadline.
		`CREATE INDEX IF NOT EXISTS idx_transactions_status_due
			ON transactions (status, payment_due_at);`,

		// The organizer review queue filters by event within a status.
		`CREATE INDEX IF NOT EXISTS idx_transactions_event_status
			ON transactions (event_id, status);`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
