package discounts

import (
	"time"

	"eventure/internal/shared/apperrors"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountAmount  DiscountType = "AMOUNT"
	DiscountPercent DiscountType = "PERCENT"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountAmount || t == DiscountPercent
}

// Voucher is an event-scoped, usage-capped discount code. Codes are stored
// lowercase; lookups fold case so the per-event uniqueness is effectively
// case-insensitive.
type Voucher struct {
	ID        uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID   uuid.UUID    `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_vouchers_event_code"`
	Code      string       `json:"code" gorm:"not null;size:50;uniqueIndex:idx_vouchers_event_code"`
	Type      DiscountType `json:"type" gorm:"type:varchar(10);not null"`
	Value     int64        `json:"value" gorm:"not null;check:value >= 0"`
	StartsAt  time.Time    `json:"starts_at" gorm:"not null"`
	EndsAt    time.Time    `json:"ends_at" gorm:"not null"`
	MaxUses   *int         `json:"max_uses,omitempty"`
	UsedCount int          `json:"used_count" gorm:"not null;default:0;check:used_count >= 0"`
	IsActive  bool         `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Coupon has the same shape as Voucher but is global, not event-scoped.
type Coupon struct {
	ID        uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Code      string       `json:"code" gorm:"not null;size:50;uniqueIndex"`
	Type      DiscountType `json:"type" gorm:"type:varchar(10);not null"`
	Value     int64        `json:"value" gorm:"not null;check:value >= 0"`
	StartsAt  time.Time    `json:"starts_at" gorm:"not null"`
	EndsAt    time.Time    `json:"ends_at" gorm:"not null"`
	MaxUses   *int         `json:"max_uses,omitempty"`
	UsedCount int          `json:"used_count" gorm:"not null;default:0;check:used_count >= 0"`
	IsActive  bool         `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Voucher) TableName() string {
	return "vouchers"
}

func (Coupon) TableName() string {
	return "coupons"
}

// UsableAt checks the validity window and the usage cap.
func (v *Voucher) UsableAt(now time.Time) error {
	if now.Before(v.StartsAt) || now.After(v.EndsAt) {
		return apperrors.New(apperrors.KindVoucherExpired, "voucher is not valid at this time")
	}
	if v.MaxUses != nil && v.UsedCount >= *v.MaxUses {
		return apperrors.New(apperrors.KindVoucherExhausted, "voucher has reached its usage limit")
	}
	return nil
}

func (c *Coupon) UsableAt(now time.Time) error {
	if now.Before(c.StartsAt) || now.After(c.EndsAt) {
		return apperrors.New(apperrors.KindCouponExpired, "coupon is not valid at this time")
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return apperrors.New(apperrors.KindCouponExhausted, "coupon has reached its usage limit")
	}
	return nil
}

type ValidateVoucherRequest struct {
	Code    string `json:"code" binding:"required"`
	EventID string `json:"event_id" binding:"required,uuid"`
}

type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// DiscountPreview is the read-only validation result used by clients to
// preview totals. Validation never mutates used counts.
type DiscountPreview struct {
	Code  string       `json:"code"`
	Type  DiscountType `json:"type"`
	Value int64        `json:"value"`
}
