package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)

	// ListByCartIDForUpdate row-locks the cart's lines so two concurrent
	// checkouts cannot both materialize the same snapshot.
	ListByCartIDForUpdate(ctx context.Context, cartID int64) ([]model.CartItem, error)

	// Upsert adds a line or increments quantity when the
	// (cart, product, variant) combination already exists.
	Upsert(ctx context.Context, cartID int64, productID int64, variantID *int64, addQty int64) error

	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)
}
