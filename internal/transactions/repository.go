package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventure/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(tx *gorm.DB, transaction *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// UpdateStatusGuarded flips the status only while the row is still in
	// the expected state. Returns false when another writer won the race.
	UpdateStatusGuarded(tx *gorm.DB, id uuid.UUID, from, to Status, updates map[string]interface{}) (bool, error)

	CreateProof(tx *gorm.DB, proof *PaymentProof) error
	CreateAttendees(tx *gorm.DB, attendees []AttendeeRecord) error

	ListOverdue(ctx context.Context, now time.Time, limit int) ([]Transaction, error)
	ListForOrganizer(ctx context.Context, organizerID uuid.UUID, query ReviewQueueQuery) ([]Transaction, int64, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, page, limit int) ([]Transaction, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(tx *gorm.DB, transaction *Transaction) error {
	if err := tx.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	var transaction Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Proof").
		Where("id = ?", id).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "transaction not found")
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

func (r *repository) GetDetail(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	var transaction Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Proof").
		Preload("Buyer").
		Preload("Event").
		Where("id = ?", id).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "transaction not found")
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

func (r *repository) UpdateStatusGuarded(tx *gorm.DB, id uuid.UUID, from, to Status, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to

	result := tx.Model(&Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) CreateProof(tx *gorm.DB, proof *PaymentProof) error {
	if err := tx.Create(proof).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.KindProofAlreadySubmitted, "payment proof already submitted for this transaction")
		}
		return fmt.Errorf("failed to create payment proof: %w", err)
	}
	return nil
}

func (r *repository) CreateAttendees(tx *gorm.DB, attendees []AttendeeRecord) error {
	if len(attendees) == 0 {
		return nil
	}
	if err := tx.Create(&attendees).Error; err != nil {
		return fmt.Errorf("failed to create attendee records: %w", err)
	}
	return nil
}

func (r *repository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]Transaction, error) {
	var overdue []Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ? AND payment_due_at < ?", StatusWaitingPayment, now).
		Order("payment_due_at ASC").
		Limit(limit).
		Find(&overdue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue transactions: %w", err)
	}
	return overdue, nil
}

func (r *repository) ListForOrganizer(ctx context.Context, organizerID uuid.UUID, query ReviewQueueQuery) ([]Transaction, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	base := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Joins("JOIN events ON events.id = transactions.event_id").
		Where("events.organizer_id = ?", organizerID)

	if query.EventID != "" {
		base = base.Where("transactions.event_id = ?", query.EventID)
	}
	if query.Status != "" {
		base = base.Where("transactions.status = ?", query.Status)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		base = base.
			Joins("JOIN users ON users.id = transactions.buyer_id").
			Where("users.name ILIKE ? OR events.title ILIKE ?", pattern, pattern)
	}

	var totalCount int64
	if err := base.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var results []Transaction
	offset := (query.Page - 1) * query.Limit
	err := base.
		Preload("Items").
		Preload("Proof").
		Preload("Buyer").
		Preload("Event").
		Order("transactions.created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return results, totalCount, nil
}

func (r *repository) ListForBuyer(ctx context.Context, buyerID uuid.UUID, page, limit int) ([]Transaction, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	base := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("buyer_id = ?", buyerID)

	var totalCount int64
	if err := base.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var results []Transaction
	err := base.
		Preload("Items").
		Preload("Proof").
		Preload("Event").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return results, totalCount, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
