package users

import (
	"context"
	"errors"
	"fmt"

	"eventure/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// DebitPointsUpTo locks the user row, clamps the requested amount to the
	// available balance and debits it. Returns the amount actually debited.
	// Must run inside the caller's database transaction.
	DebitPointsUpTo(tx *gorm.DB, userID uuid.UUID, requested int64) (int64, error)

	// CreditPoints refunds points, used when a transaction is rolled back.
	CreditPoints(tx *gorm.DB, userID uuid.UUID, amount int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *repository) DebitPointsUpTo(tx *gorm.DB, userID uuid.UUID, requested int64) (int64, error) {
	if requested <= 0 {
		return 0, nil
	}

	var user User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.New(apperrors.KindNotFound, "user not found")
		}
		return 0, fmt.Errorf("failed to lock user row: %w", err)
	}

	debit := requested
	if debit > user.PointsBalance {
		debit = user.PointsBalance
	}
	if debit == 0 {
		return 0, nil
	}

	err = tx.Model(&User{}).
		Where("id = ?", userID).
		Update("points_balance", gorm.Expr("points_balance - ?", debit)).Error
	if err != nil {
		return 0, fmt.Errorf("failed to debit points: %w", err)
	}

	return debit, nil
}

func (r *repository) CreditPoints(tx *gorm.DB, userID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return nil
	}

	err := tx.Model(&User{}).
		Where("id = ?", userID).
		Update("points_balance", gorm.Expr("points_balance + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("failed to credit points: %w", err)
	}
	return nil
}
