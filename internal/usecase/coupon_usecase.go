package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CouponDiscount computes the discount a coupon grants on a subtotal.
// The flat amount wins over the percentage and is clamped to the subtotal,
// so the payable total can reach zero but never go below it.
func CouponDiscount(c model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if c.DiscountFlat != nil && c.DiscountFlat.IsPositive() {
		if c.DiscountFlat.GreaterThan(subtotal) {
			return subtotal
		}
		return *c.DiscountFlat
	}

	return subtotal.
		Mul(c.DiscountPercentage).
		Div(decimal.NewFromInt(100)).
		Round(2)
}

type CouponUsecase struct {
	cartRepo   repo.CartRepository
	couponRepo repo.CouponRepository
	clock      Clock
}

func NewCouponUsecase(cartRepo repo.CartRepository, couponRepo repo.CouponRepository, clock Clock) *CouponUsecase {
	return &CouponUsecase{
		cartRepo:   cartRepo,
		couponRepo: couponRepo,
		clock:      clock,
	}
}

type ApplyCouponOutput struct {
	Applied bool   `json:"applied"`
	Message string `json:"message"`
}

// Apply attaches a coupon code to the user's cart. Failure never mutates
// the cart; re-applying the attached code reports "already applied" rather
// than discounting twice (the cart holds at most one coupon).
func (u *CouponUsecase) Apply(ctx context.Context, userID int64, code string) (ApplyCouponOutput, error) {
	if userID <= 0 {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusBadRequest, "coupon code required")
	}

	coupon, err := u.couponRepo.FindByCode(ctx, normalized)
	if errors.Is(err, repo.ErrNotFound) {
		return ApplyCouponOutput{Message: "coupon code \"" + normalized + "\" not found"}, nil
	}
	if err != nil {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !coupon.IsValidAt(u.clock.Now()) {
		return ApplyCouponOutput{Message: "this coupon is not active"}, nil
	}
	if coupon.UsageExhausted() {
		return ApplyCouponOutput{Message: "coupon usage limit reached"}, nil
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if cart.CouponID != nil && *cart.CouponID == coupon.ID {
		return ApplyCouponOutput{Applied: true, Message: "coupon " + normalized + " already applied"}, nil
	}

	if err := u.cartRepo.SetCoupon(ctx, cart.ID, &coupon.ID); err != nil {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ApplyCouponOutput{Applied: true, Message: "coupon " + normalized + " applied!"}, nil
}

// Remove detaches whatever coupon is on the cart. Removing from a cart
// with no coupon is a no-op.
func (u *CouponUsecase) Remove(ctx context.Context, userID int64) (ApplyCouponOutput, error) {
	if userID <= 0 {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if cart.CouponID == nil {
		return ApplyCouponOutput{Message: "no coupon applied"}, nil
	}

	if err := u.cartRepo.SetCoupon(ctx, cart.ID, nil); err != nil {
		return ApplyCouponOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ApplyCouponOutput{Message: "coupon removed"}, nil
}

// evaluateCartCoupon resolves the cart's coupon into a discount on the
// given subtotal. Inactive or out-of-window coupons are detached from the
// cart (persisted) and yield zero with a notice.
func evaluateCartCoupon(
	ctx context.Context,
	carts repo.CartRepository,
	coupons repo.CouponRepository,
	cart model.Cart,
	subtotal decimal.Decimal,
	now time.Time,
) (discount decimal.Decimal, coupon *model.Coupon, notice string, err error) {
	if cart.CouponID == nil {
		return decimal.Zero, nil, "", nil
	}

	c, err := coupons.FindByID(ctx, *cart.CouponID)
	if errors.Is(err, repo.ErrNotFound) {
		// Coupon deleted behind the cart's back: evict the stale reference.
		if err := carts.SetCoupon(ctx, cart.ID, nil); err != nil {
			return decimal.Zero, nil, "", err
		}
		return decimal.Zero, nil, "coupon is no longer available", nil
	}
	if err != nil {
		return decimal.Zero, nil, "", err
	}

	if !c.IsValidAt(now) {
		if err := carts.SetCoupon(ctx, cart.ID, nil); err != nil {
			return decimal.Zero, nil, "", err
		}
		return decimal.Zero, nil, "coupon " + c.Code + " has expired and was removed", nil
	}

	// Below the minimum the coupon stays on the cart; the discount simply
	// does not apply yet.
	if subtotal.LessThan(c.MinOrderValue) {
		return decimal.Zero, nil, "add " + c.MinOrderValue.Sub(subtotal).StringFixed(2) + " more to use coupon " + c.Code, nil
	}

	return CouponDiscount(c, subtotal), &c, "", nil
}
