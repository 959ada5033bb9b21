package repository

import "context"

type InventoryRepository interface {
	// DecreaseStockIfEnough decrements stock only when enough is left.
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// IncreaseStock returns stock (refund approval, cancellation).
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	SetStock(ctx context.Context, productID int64, newStock int64) error
}
