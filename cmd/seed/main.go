package main

import (
	"fmt"
	"log"
	"time"

	"eventure/internal/discounts"
	"eventure/internal/events"
	"eventure/internal/shared/config"
	"eventure/internal/shared/database"
	"eventure/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Eventure database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"attendee_records",
		"payment_proofs",
		"transaction_items",
		"inventory_releases",
		"transactions",
		"vouchers",
		"coupons",
		"ticket_types",
		"events",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return err
	}

	for _, table := range tables {
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

func (s *Seeder) SeedAll() error {
	organizer, buyer, err := s.seedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	event, err := s.seedEvents(organizer)
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.seedDiscounts(event); err != nil {
		return fmt.Errorf("failed to seed discounts: %w", err)
	}

	fmt.Printf("Seeded organizer %s, buyer %s, event %s\n", organizer.Email, buyer.Email, event.Slug)
	return nil
}

func (s *Seeder) seedUsers() (*users.User, *users.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	organizer := &users.User{
		ID:       uuid.New(),
		Name:     "Java Jazz Productions",
		Email:    "organizer@eventure.dev",
		Password: string(hash),
		Role:     users.RoleOrganizer,
	}
	buyer := &users.User{
		ID:            uuid.New(),
		Name:          "Budi Santoso",
		Email:         "buyer@eventure.dev",
		Password:      string(hash),
		Role:          users.RoleUser,
		PointsBalance: 50000,
	}
	admin := &users.User{
		ID:       uuid.New(),
		Name:     "Platform Admin",
		Email:    "admin@eventure.dev",
		Password: string(hash),
		Role:     users.RoleAdmin,
	}

	for _, user := range []*users.User{organizer, buyer, admin} {
		if err := s.db.PostgreSQL.Create(user).Error; err != nil {
			return nil, nil, err
		}
	}
	return organizer, buyer, nil
}

func (s *Seeder) seedEvents(organizer *users.User) (*events.Event, error) {
	startsAt := time.Now().AddDate(0, 1, 0)

	event := &events.Event{
		ID:             uuid.New(),
		OrganizerID:    organizer.ID,
		Title:          "Jakarta Jazz Festival 2026",
		Slug:           "jakarta-jazz-festival-2026-" + uuid.New().String()[:8],
		Description:    "Three stages of jazz across one evening.",
		Location:       "JIExpo Kemayoran, Jakarta",
		StartsAt:       startsAt,
		EndsAt:         startsAt.Add(8 * time.Hour),
		BasePrice:      150000,
		TotalSeats:     500,
		AvailableSeats: 500,
		Status:         events.StatusPublished,
	}
	if err := s.db.PostgreSQL.Create(event).Error; err != nil {
		return nil, err
	}

	ticketTypes := []events.TicketType{
		{
			ID:             uuid.New(),
			EventID:        event.ID,
			Name:           "Regular",
			Price:          150000,
			TotalSeats:     400,
			AvailableSeats: 400,
		},
		{
			ID:             uuid.New(),
			EventID:        event.ID,
			Name:           "VIP",
			Price:          450000,
			TotalSeats:     100,
			AvailableSeats: 100,
		},
	}
	for i := range ticketTypes {
		if err := s.db.PostgreSQL.Create(&ticketTypes[i]).Error; err != nil {
			return nil, err
		}
	}

	// A draft event so the organizer console has something to publish.
	draftStart := time.Now().AddDate(0, 2, 0)
	draft := &events.Event{
		ID:             uuid.New(),
		OrganizerID:    organizer.ID,
		Title:          "Acoustic Night",
		Slug:           "acoustic-night-" + uuid.New().String()[:8],
		Description:    "Intimate acoustic sessions.",
		Location:       "Balai Sarbini, Jakarta",
		StartsAt:       draftStart,
		EndsAt:         draftStart.Add(4 * time.Hour),
		BasePrice:      100000,
		TotalSeats:     200,
		AvailableSeats: 200,
		Status:         events.StatusDraft,
	}
	if err := s.db.PostgreSQL.Create(draft).Error; err != nil {
		return nil, err
	}

	return event, nil
}

func (s *Seeder) seedDiscounts(event *events.Event) error {
	maxUses := 100
	startsAt := time.Now().AddDate(0, 0, -1)
	endsAt := time.Now().AddDate(0, 3, 0)

	voucher := &discounts.Voucher{
		ID:       uuid.New(),
		EventID:  event.ID,
		Code:     "jazzlove10",
		Type:     discounts.DiscountPercent,
		Value:    10,
		MaxUses:  &maxUses,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		IsActive: true,
	}
	if err := s.db.PostgreSQL.Create(voucher).Error; err != nil {
		return err
	}

	coupon := &discounts.Coupon{
		ID:       uuid.New(),
		Code:     "welcome25k",
		Type:     discounts.DiscountAmount,
		Value:    25000,
		MaxUses:  &maxUses,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		IsActive: true,
	}
	return s.db.PostgreSQL.Create(coupon).Error
}
