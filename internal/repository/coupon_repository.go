package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CouponRepository interface {
	// FindByCode expects an already-normalized (trimmed, uppercased) code.
	FindByCode(ctx context.Context, code string) (model.Coupon, error)
	FindByID(ctx context.Context, couponID int64) (model.Coupon, error)

	// RedeemIfAvailable increments used_count and checks the usage cap in a
	// single statement. Returns false when the cap is already exhausted.
	RedeemIfAvailable(ctx context.Context, couponID int64) (bool, error)
}
