package discounts

import (
	"context"
	"testing"
	"time"

	"eventure/internal/shared/apperrors"
	"eventure/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestComputeDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		dType    DiscountType
		value    int64
		want     int64
	}{
		{"percent of round subtotal", 200000, DiscountPercent, 10, 20000},
		{"percent rounds half up", 333, DiscountPercent, 10, 33},
		{"percent rounds up at half", 150, DiscountPercent, 35, 53},
		{"percent full", 200000, DiscountPercent, 100, 200000},
		{"percent clamps above subtotal", 100, DiscountPercent, 150, 100},
		{"amount below subtotal", 200000, DiscountAmount, 25000, 25000},
		{"amount capped at subtotal", 20000, DiscountAmount, 25000, 20000},
		{"zero subtotal", 0, DiscountAmount, 25000, 0},
		{"zero value", 200000, DiscountPercent, 0, 0},
		{"unknown type", 200000, DiscountType("BOGUS"), 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDiscount(tt.subtotal, tt.dType, tt.value))
		})
	}
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name                           string
		subtotal, voucher, coupon, pts int64
		want                           int64
	}{
		{"no discounts", 200000, 0, 0, 0, 200000},
		{"all three against original subtotal", 200000, 20000, 25000, 50000, 105000},
		{"floors at zero", 100000, 60000, 60000, 0, 0},
		{"points push below zero", 50000, 25000, 0, 50000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTotal(tt.subtotal, tt.voucher, tt.coupon, tt.pts))
		})
	}
}

type fakeRepo struct {
	vouchers map[string]*Voucher
	coupons  map[string]*Coupon

	voucherIncrements int
	couponIncrements  int
	voucherDecrements int
	couponDecrements  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		vouchers: map[string]*Voucher{},
		coupons:  map[string]*Coupon{},
	}
}

func (f *fakeRepo) CreateVoucher(ctx context.Context, v *Voucher) error {
	f.vouchers[v.Code] = v
	return nil
}

func (f *fakeRepo) CreateCoupon(ctx context.Context, c *Coupon) error {
	f.coupons[c.Code] = c
	return nil
}

func (f *fakeRepo) GetActiveVoucherByCode(ctx context.Context, eventID uuid.UUID, code string) (*Voucher, error) {
	v, ok := f.vouchers[code]
	if !ok || v.EventID != eventID {
		return nil, apperrors.New(apperrors.KindVoucherNotFound, "voucher not found")
	}
	return v, nil
}

func (f *fakeRepo) GetActiveCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, apperrors.New(apperrors.KindCouponNotFound, "coupon not found")
	}
	return c, nil
}

func (f *fakeRepo) LockVoucherByCode(tx *gorm.DB, eventID uuid.UUID, code string) (*Voucher, error) {
	return f.GetActiveVoucherByCode(context.Background(), eventID, code)
}

func (f *fakeRepo) LockCouponByCode(tx *gorm.DB, code string) (*Coupon, error) {
	return f.GetActiveCouponByCode(context.Background(), code)
}

func (f *fakeRepo) IncrementVoucherUse(tx *gorm.DB, id uuid.UUID) error {
	f.voucherIncrements++
	return nil
}

func (f *fakeRepo) DecrementVoucherUse(tx *gorm.DB, id uuid.UUID) error {
	f.voucherDecrements++
	return nil
}

func (f *fakeRepo) IncrementCouponUse(tx *gorm.DB, id uuid.UUID) error {
	f.couponIncrements++
	return nil
}

func (f *fakeRepo) DecrementCouponUse(tx *gorm.DB, id uuid.UUID) error {
	f.couponDecrements++
	return nil
}

type fakeUsersRepo struct {
	balances map[uuid.UUID]int64
	credits  map[uuid.UUID]int64
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		balances: map[uuid.UUID]int64{},
		credits:  map[uuid.UUID]int64{},
	}
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	panic("not used")
}

func (f *fakeUsersRepo) DebitPointsUpTo(tx *gorm.DB, userID uuid.UUID, requested int64) (int64, error) {
	balance := f.balances[userID]
	debit := requested
	if debit > balance {
		debit = balance
	}
	f.balances[userID] = balance - debit
	return debit, nil
}

func (f *fakeUsersRepo) CreditPoints(tx *gorm.DB, userID uuid.UUID, amount int64) error {
	f.credits[userID] += amount
	f.balances[userID] += amount
	return nil
}

func testVoucher(eventID uuid.UUID, code string, dType DiscountType, value int64) *Voucher {
	maxUses := 10
	return &Voucher{
		ID:       uuid.New(),
		EventID:  eventID,
		Code:     code,
		Type:     dType,
		Value:    value,
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(time.Hour),
		MaxUses:  &maxUses,
		IsActive: true,
	}
}

func testCoupon(code string, dType DiscountType, value int64) *Coupon {
	maxUses := 10
	return &Coupon{
		ID:       uuid.New(),
		Code:     code,
		Type:     dType,
		Value:    value,
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(time.Hour),
		MaxUses:  &maxUses,
		IsActive: true,
	}
}

func TestValidateVoucher(t *testing.T) {
	eventID := uuid.New()
	repo := newFakeRepo()
	repo.vouchers["jazzlove10"] = testVoucher(eventID, "jazzlove10", DiscountPercent, 10)
	svc := NewService(repo, newFakeUsersRepo())

	preview, err := svc.ValidateVoucher(context.Background(), "jazzlove10", eventID)
	require.NoError(t, err)
	assert.Equal(t, DiscountPercent, preview.Type)
	assert.Equal(t, int64(10), preview.Value)
	assert.Zero(t, repo.voucherIncrements, "validation must not consume a use")
}

func TestValidateVoucherNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), newFakeUsersRepo())

	_, err := svc.ValidateVoucher(context.Background(), "nope", uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.KindVoucherNotFound))
}

func TestValidateVoucherExhausted(t *testing.T) {
	eventID := uuid.New()
	repo := newFakeRepo()
	v := testVoucher(eventID, "full", DiscountPercent, 10)
	v.UsedCount = *v.MaxUses
	repo.vouchers["full"] = v
	svc := NewService(repo, newFakeUsersRepo())

	_, err := svc.ValidateVoucher(context.Background(), "full", eventID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindVoucherExhausted))
}

func TestValidateCouponExpired(t *testing.T) {
	repo := newFakeRepo()
	c := testCoupon("old", DiscountAmount, 25000)
	c.EndsAt = time.Now().Add(-time.Minute)
	repo.coupons["old"] = c
	svc := NewService(repo, newFakeUsersRepo())

	_, err := svc.ValidateCoupon(context.Background(), "old")
	assert.True(t, apperrors.IsKind(err, apperrors.KindCouponExpired))
}

func TestApplyAtCommitStacksAgainstSubtotal(t *testing.T) {
	eventID := uuid.New()
	buyerID := uuid.New()
	repo := newFakeRepo()
	repo.vouchers["jazzlove10"] = testVoucher(eventID, "jazzlove10", DiscountPercent, 10)
	repo.coupons["welcome25k"] = testCoupon("welcome25k", DiscountAmount, 25000)
	usersRepo := newFakeUsersRepo()
	usersRepo.balances[buyerID] = 50000
	svc := NewService(repo, usersRepo)

	applied, err := svc.ApplyAtCommit(nil, ApplyRequest{
		EventID:         eventID,
		BuyerID:         buyerID,
		VoucherCode:     "jazzlove10",
		CouponCode:      "welcome25k",
		PointsRequested: 30000,
		Subtotal:        200000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20000), applied.VoucherDiscount)
	assert.Equal(t, int64(25000), applied.CouponDiscount)
	assert.Equal(t, int64(30000), applied.PointsUsed)
	assert.Equal(t, int64(125000), applied.TotalPayable)
	assert.Equal(t, 1, repo.voucherIncrements)
	assert.Equal(t, 1, repo.couponIncrements)
	assert.Equal(t, int64(20000), usersRepo.balances[buyerID])
}

func TestApplyAtCommitClampsPoints(t *testing.T) {
	buyerID := uuid.New()
	usersRepo := newFakeUsersRepo()
	usersRepo.balances[buyerID] = 10000
	svc := NewService(newFakeRepo(), usersRepo)

	// Requested more than the balance covers: debit what is there.
	applied, err := svc.ApplyAtCommit(nil, ApplyRequest{
		EventID:         uuid.New(),
		BuyerID:         buyerID,
		PointsRequested: 75000,
		Subtotal:        50000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), applied.PointsUsed)
	assert.Equal(t, int64(40000), applied.TotalPayable)
	assert.Zero(t, usersRepo.balances[buyerID])
}

func TestApplyAtCommitClampsPointsToSubtotal(t *testing.T) {
	buyerID := uuid.New()
	usersRepo := newFakeUsersRepo()
	usersRepo.balances[buyerID] = 100000
	svc := NewService(newFakeRepo(), usersRepo)

	applied, err := svc.ApplyAtCommit(nil, ApplyRequest{
		EventID:         uuid.New(),
		BuyerID:         buyerID,
		PointsRequested: 100000,
		Subtotal:        30000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), applied.PointsUsed)
	assert.Zero(t, applied.TotalPayable)
	assert.Equal(t, int64(70000), usersRepo.balances[buyerID])
}

func TestReleaseUsage(t *testing.T) {
	buyerID := uuid.New()
	voucherID := uuid.New()
	repo := newFakeRepo()
	usersRepo := newFakeUsersRepo()
	svc := NewService(repo, usersRepo)

	err := svc.ReleaseUsage(nil, ReleaseUsageRequest{
		BuyerID:    buyerID,
		VoucherID:  &voucherID,
		PointsUsed: 15000,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.voucherDecrements)
	assert.Zero(t, repo.couponDecrements)
	assert.Equal(t, int64(15000), usersRepo.credits[buyerID])
}
