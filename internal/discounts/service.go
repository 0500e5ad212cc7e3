package discounts

import (
	"context"
	"time"

	"eventure/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComputeDiscount prices a single discount against a subtotal. AMOUNT
// discounts are capped at the subtotal; PERCENT discounts are rounded to
// the nearest rupiah and clamped to [0, subtotal].
func ComputeDiscount(subtotal int64, discountType DiscountType, value int64) int64 {
	if subtotal <= 0 || value <= 0 {
		return 0
	}

	var discount int64
	switch discountType {
	case DiscountAmount:
		discount = value
	case DiscountPercent:
		discount = (subtotal*value + 50) / 100
	default:
		return 0
	}

	if discount > subtotal {
		return subtotal
	}
	return discount
}

// ComputeTotal applies voucher, coupon and points against the original
// subtotal. Discounts never compound: each term is computed against the
// subtotal itself, and the result is floored at zero.
func ComputeTotal(subtotal, voucherDiscount, couponDiscount, pointsUsed int64) int64 {
	total := subtotal - voucherDiscount - couponDiscount - pointsUsed
	if total < 0 {
		return 0
	}
	return total
}

// ApplyRequest asks the resolver to commit discount usage for a booking.
type ApplyRequest struct {
	EventID         uuid.UUID
	BuyerID         uuid.UUID
	VoucherCode     string
	CouponCode      string
	PointsRequested int64
	Subtotal        int64
}

// Applied reports what was actually committed.
type Applied struct {
	VoucherID       *uuid.UUID
	VoucherDiscount int64
	CouponID        *uuid.UUID
	CouponDiscount  int64
	PointsUsed      int64
	TotalPayable    int64
}

// ReleaseUsageRequest reverses a committed application when a transaction
// is expired, rejected or canceled.
type ReleaseUsageRequest struct {
	BuyerID    uuid.UUID
	VoucherID  *uuid.UUID
	CouponID   *uuid.UUID
	PointsUsed int64
}

// Service interface defines the contract for discount resolution
type Service interface {
	// Preview-only checks. Neither mutates used counts.
	ValidateVoucher(ctx context.Context, code string, eventID uuid.UUID) (*DiscountPreview, error)
	ValidateCoupon(ctx context.Context, code string) (*DiscountPreview, error)

	// ApplyAtCommit is the sole point where used counts increment and
	// points are debited. Must run inside the booking's database
	// transaction so a failed reservation rolls the usage back too.
	ApplyAtCommit(tx *gorm.DB, req ApplyRequest) (*Applied, error)

	// ReleaseUsage decrements used counts and refunds points. Callers gate
	// it behind the inventory release so rollback happens exactly once.
	ReleaseUsage(tx *gorm.DB, req ReleaseUsageRequest) error
}

type service struct {
	repo      Repository
	usersRepo users.Repository
	now       func() time.Time
}

func NewService(repo Repository, usersRepo users.Repository) Service {
	return &service{
		repo:      repo,
		usersRepo: usersRepo,
		now:       time.Now,
	}
}

func (s *service) ValidateVoucher(ctx context.Context, code string, eventID uuid.UUID) (*DiscountPreview, error) {
	voucher, err := s.repo.GetActiveVoucherByCode(ctx, eventID, code)
	if err != nil {
		return nil, err
	}
	if err := voucher.UsableAt(s.now()); err != nil {
		return nil, err
	}
	return &DiscountPreview{
		Code:  voucher.Code,
		Type:  voucher.Type,
		Value: voucher.Value,
	}, nil
}

func (s *service) ValidateCoupon(ctx context.Context, code string) (*DiscountPreview, error) {
	coupon, err := s.repo.GetActiveCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := coupon.UsableAt(s.now()); err != nil {
		return nil, err
	}
	return &DiscountPreview{
		Code:  coupon.Code,
		Type:  coupon.Type,
		Value: coupon.Value,
	}, nil
}

func (s *service) ApplyAtCommit(tx *gorm.DB, req ApplyRequest) (*Applied, error) {
	applied := &Applied{}
	now := s.now()

	if req.VoucherCode != "" {
		voucher, err := s.repo.LockVoucherByCode(tx, req.EventID, req.VoucherCode)
		if err != nil {
			return nil, err
		}
		if err := voucher.UsableAt(now); err != nil {
			return nil, err
		}
		if err := s.repo.IncrementVoucherUse(tx, voucher.ID); err != nil {
			return nil, err
		}
		applied.VoucherID = &voucher.ID
		applied.VoucherDiscount = ComputeDiscount(req.Subtotal, voucher.Type, voucher.Value)
	}

	if req.CouponCode != "" {
		coupon, err := s.repo.LockCouponByCode(tx, req.CouponCode)
		if err != nil {
			return nil, err
		}
		if err := coupon.UsableAt(now); err != nil {
			return nil, err
		}
		if err := s.repo.IncrementCouponUse(tx, coupon.ID); err != nil {
			return nil, err
		}
		applied.CouponID = &coupon.ID
		applied.CouponDiscount = ComputeDiscount(req.Subtotal, coupon.Type, coupon.Value)
	}

	if req.PointsRequested > 0 {
		// Over-requested points are clamped, not rejected: first to the
		// subtotal, then to the buyer's balance inside the debit.
		requested := req.PointsRequested
		if requested > req.Subtotal {
			requested = req.Subtotal
		}
		debited, err := s.usersRepo.DebitPointsUpTo(tx, req.BuyerID, requested)
		if err != nil {
			return nil, err
		}
		applied.PointsUsed = debited
	}

	applied.TotalPayable = ComputeTotal(req.Subtotal, applied.VoucherDiscount, applied.CouponDiscount, applied.PointsUsed)
	return applied, nil
}

func (s *service) ReleaseUsage(tx *gorm.DB, req ReleaseUsageRequest) error {
	if req.VoucherID != nil {
		if err := s.repo.DecrementVoucherUse(tx, *req.VoucherID); err != nil {
			return err
		}
	}
	if req.CouponID != nil {
		if err := s.repo.DecrementCouponUse(tx, *req.CouponID); err != nil {
			return err
		}
	}
	if req.PointsUsed > 0 {
		if err := s.usersRepo.CreditPoints(tx, req.BuyerID, req.PointsUsed); err != nil {
			return err
		}
	}
	return nil
}
