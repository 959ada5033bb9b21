package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)

	// SetCoupon attaches (or, with nil, detaches) the cart's coupon.
	SetCoupon(ctx context.Context, cartID int64, couponID *int64) error

	// Clear deletes all cart items of the cart.
	Clear(ctx context.Context, cartID int64) error
}
