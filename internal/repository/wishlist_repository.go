package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type WishlistRepository interface {
	// Add is a no-op when the (user, product) pair already exists.
	Add(ctx context.Context, userID int64, productID int64) error
	Remove(ctx context.Context, userID int64, productID int64) error
	ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error)
}
