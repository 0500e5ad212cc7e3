package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventure/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateVoucher(ctx context.Context, voucher *Voucher) error
	CreateCoupon(ctx context.Context, coupon *Coupon) error

	GetActiveVoucherByCode(ctx context.Context, eventID uuid.UUID, code string) (*Voucher, error)
	GetActiveCouponByCode(ctx context.Context, code string) (*Coupon, error)

	// Locked variants for commit-time use inside a database transaction.
	LockVoucherByCode(tx *gorm.DB, eventID uuid.UUID, code string) (*Voucher, error)
	LockCouponByCode(tx *gorm.DB, code string) (*Coupon, error)

	// Guarded used-count mutations.
	IncrementVoucherUse(tx *gorm.DB, id uuid.UUID) error
	DecrementVoucherUse(tx *gorm.DB, id uuid.UUID) error
	IncrementCouponUse(tx *gorm.DB, id uuid.UUID) error
	DecrementCouponUse(tx *gorm.DB, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateVoucher(ctx context.Context, voucher *Voucher) error {
	voucher.Code = strings.ToLower(voucher.Code)
	return r.db.WithContext(ctx).Create(voucher).Error
}

func (r *repository) CreateCoupon(ctx context.Context, coupon *Coupon) error {
	coupon.Code = strings.ToLower(coupon.Code)
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *repository) GetActiveVoucherByCode(ctx context.Context, eventID uuid.UUID, code string) (*Voucher, error) {
	var voucher Voucher
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND code = ? AND is_active = true", eventID, strings.ToLower(code)).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindVoucherNotFound, "voucher not found for this event")
		}
		return nil, fmt.Errorf("failed to get voucher: %w", err)
	}
	return &voucher, nil
}

func (r *repository) GetActiveCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	var coupon Coupon
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = true", strings.ToLower(code)).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindCouponNotFound, "coupon not found")
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return &coupon, nil
}

func (r *repository) LockVoucherByCode(tx *gorm.DB, eventID uuid.UUID, code string) (*Voucher, error) {
	var voucher Voucher
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ? AND code = ? AND is_active = true", eventID, strings.ToLower(code)).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindVoucherNotFound, "voucher not found for this event")
		}
		return nil, fmt.Errorf("failed to lock voucher: %w", err)
	}
	return &voucher, nil
}

func (r *repository) LockCouponByCode(tx *gorm.DB, code string) (*Coupon, error) {
	var coupon Coupon
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ? AND is_active = true", strings.ToLower(code)).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindCouponNotFound, "coupon not found")
		}
		return nil, fmt.Errorf("failed to lock coupon: %w", err)
	}
	return &coupon, nil
}

func (r *repository) IncrementVoucherUse(tx *gorm.DB, id uuid.UUID) error {
	result := tx.Model(&Voucher{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment voucher use: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindVoucherExhausted, "voucher has reached its usage limit")
	}
	return nil
}

func (r *repository) DecrementVoucherUse(tx *gorm.DB, id uuid.UUID) error {
	// Guarded so a rollback can never push the counter negative.
	err := tx.Model(&Voucher{}).
		Where("id = ? AND used_count > 0", id).
		Update("used_count", gorm.Expr("used_count - 1")).Error
	if err != nil {
		return fmt.Errorf("failed to decrement voucher use: %w", err)
	}
	return nil
}

func (r *repository) IncrementCouponUse(tx *gorm.DB, id uuid.UUID) error {
	result := tx.Model(&Coupon{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment coupon use: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindCouponExhausted, "coupon has reached its usage limit")
	}
	return nil
}

func (r *repository) DecrementCouponUse(tx *gorm.DB, id uuid.UUID) error {
	err := tx.Model(&Coupon{}).
		Where("id = ? AND used_count > 0", id).
		Update("used_count", gorm.Expr("used_count - 1")).Error
	if err != nil {
		return fmt.Errorf("failed to decrement coupon use: %w", err)
	}
	return nil
}
