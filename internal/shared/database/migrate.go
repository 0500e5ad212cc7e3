package database

import (
	"eventure/internal/discounts"
	"eventure/internal/events"
	"eventure/internal/inventory"
	"eventure/internal/transactions"
	"eventure/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&events.TicketType{},
		&discounts.Voucher{},
		&discounts.Coupon{},
		&transactions.Transaction{},
		&transactions.TransactionItem{},
		&transactions.PaymentProof{},
		&transactions.AttendeeRecord{},
		&inventory.Release{},
	)
}
