package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

func validCoupon(now time.Time) model.Coupon {
	return model.Coupon{
		ID:                 7,
		Code:               "SAVE10",
		DiscountPercentage: dec("10"),
		IsActive:           true,
		ValidFrom:          now.Add(-time.Hour),
		ValidTill:          now.Add(time.Hour),
	}
}

func TestCouponDiscount_Percentage(t *testing.T) {
	c := model.Coupon{DiscountPercentage: dec("10")}

	got := CouponDiscount(c, dec("300"))

	assert.True(t, dec("30").Equal(got), "got %s", got)
}

func TestCouponDiscount_FlatWinsOverPercentage(t *testing.T) {
	flat := dec("25")
	c := model.Coupon{DiscountPercentage: dec("10"), DiscountFlat: &flat}

	got := CouponDiscount(c, dec("300"))

	assert.True(t, dec("25").Equal(got), "got %s", got)
}

func TestCouponDiscount_FlatClampedToSubtotal(t *testing.T) {
	flat := dec("50")
	c := model.Coupon{DiscountFlat: &flat}

	got := CouponDiscount(c, dec("30"))

	// A 50 coupon on a 30 cart discounts exactly 30, never below zero.
	assert.True(t, dec("30").Equal(got), "got %s", got)
}

func TestCouponDiscount_PercentageRounded(t *testing.T) {
	c := model.Coupon{DiscountPercentage: dec("15")}

	got := CouponDiscount(c, dec("99.99"))

	assert.True(t, dec("15.00").Equal(got), "got %s", got)
}

func TestApplyCoupon_NormalizesCode(t *testing.T) {
	now := time.Now()
	cartRepo := &CartRepoMock{}
	couponRepo := &CouponRepoMock{}
	uc := NewCouponUsecase(cartRepo, couponRepo, &fixedClock{now})

	coupon := validCoupon(now)
	couponRepo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)
	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 3, UserID: 1}, nil)
	cartRepo.On("SetCoupon", mock.Anything, int64(3), &coupon.ID).Return(nil)

	out, err := uc.Apply(context.Background(), 1, "  save10  ")

	assert.NoError(t, err)
	assert.True(t, out.Applied)
	couponRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
}

func TestApplyCoupon_UnknownCodeDoesNotMutate(t *testing.T) {
	now := time.Now()
	cartRepo := &CartRepoMock{}
	couponRepo := &CouponRepoMock{}
	uc := NewCouponUsecase(cartRepo, couponRepo, &fixedClock{now})

	couponRepo.On("FindByCode", mock.Anything, "NOPE").Return(model.Coupon{}, repo.ErrNotFound)

	out, err := uc.Apply(context.Background(), 1, "nope")

	assert.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Contains(t, out.Message, "NOPE")
	cartRepo.AssertNotCalled(t, "SetCoupon", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyCoupon_ReapplySameCodeIsIdempotent(t *testing.T) {
	now := time.Now()
	cartRepo := &CartRepoMock{}
	couponRepo := &CouponRepoMock{}
	uc := NewCouponUsecase(cartRepo, couponRepo, &fixedClock{now})

	coupon := validCoupon(now)
	couponRepo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)
	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 3, UserID: 1, CouponID: &coupon.ID}, nil)

	out, err := uc.Apply(context.Background(), 1, "SAVE10")

	assert.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Contains(t, out.Message, "already applied")
	cartRepo.AssertNotCalled(t, "SetCoupon", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyCoupon_ExhaustedCap(t *testing.T) {
	now := time.Now()
	cartRepo := &CartRepoMock{}
	couponRepo := &CouponRepoMock{}
	uc := NewCouponUsecase(cartRepo, couponRepo, &fixedClock{now})

	maxUses := int64(5)
	coupon := validCoupon(now)
	coupon.MaxUses = &maxUses
	coupon.UsedCount = 5
	couponRepo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)

	out, err := uc.Apply(context.Background(), 1, "SAVE10")

	assert.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Contains(t, out.Message, "limit")
}

func TestEvaluateCartCoupon_ExpiredCouponEvicted(t *testing.T) {
	now := time.Now()
	cartRepo := &CartRepoMock{}
	couponRepo := &CouponRepoMock{}

	coupon := validCoupon(now)
	coupon.ValidTill = now.Add(-time.Minute)
	cart := model.Cart{ID: 3, UserID: 1, CouponID: &coupon.ID}

	couponRepo.On("FindByID", mock.Anything, coupon.ID).Return(coupon, nil)
	cartRepo.On("SetCoupon", mock.Anything, int64(3), (*int64)(nil)).Return(nil)

	discount, evaluated, notice, err := evaluateCartCoupon(context.Background(), cartRepo, couponRepo, cart, dec("100"), now)

	assert.NoError(t, err)
	assert.True(t, discount.IsZero())
	assert.Nil(t, evaluated)
	assert.Contains(t, notice, "expired")
	cartRepo.AssertExpectations(t)
}

func TestEvaluateCartCoupon_BelowMinimumKeepsCoupon(t *testing.T) {
	now := time.Now()
	cartRepo := &CartRepoMock{}
	couponRepo := &CouponRepoMock{}

	coupon := validCoupon(now)
	coupon.MinOrderValue = dec("500")
	cart := model.Cart{ID: 3, UserID: 1, CouponID: &coupon.ID}

	couponRepo.On("FindByID", mock.Anything, coupon.ID).Return(coupon, nil)

	discount, evaluated, notice, err := evaluateCartCoupon(context.Background(), cartRepo, couponRepo, cart, dec("100"), now)

	assert.NoError(t, err)
	assert.True(t, discount.IsZero())
	assert.Nil(t, evaluated)
	assert.NotEmpty(t, notice)
	cartRepo.AssertNotCalled(t, "SetCoupon", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveCoupon_NoCouponIsNoop(t *testing.T) {
	cartRepo := &CartRepoMock{}
	couponRepo := &CouponRepoMock{}
	uc := NewCouponUsecase(cartRepo, couponRepo, &fixedClock{time.Now()})

	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 3, UserID: 1}, nil)

	out, err := uc.Remove(context.Background(), 1)

	assert.NoError(t, err)
	assert.Contains(t, out.Message, "no coupon")
	cartRepo.AssertNotCalled(t, "SetCoupon", mock.Anything, mock.Anything, mock.Anything)
}
