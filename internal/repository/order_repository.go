package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByIDs(ctx context.Context, orderIDs []int64) ([]model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.Order, int64, error)

	// ListPendingByUserIDForUpdate row-locks the user's legacy pending
	// orders, the priority line source during checkout.
	ListPendingByUserIDForUpdate(ctx context.Context, userID int64) ([]model.Order, error)

	// StampCheckout re-stamps legacy pending orders with the submitted
	// address, contact and payment info and moves them to packed.
	StampCheckout(ctx context.Context, orderIDs []int64, address string, mobile string, method model.PaymentMethod, transactionID *string) error

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	// AttachTransactionID sets the gateway order id on the whole order set,
	// all-or-nothing.
	AttachTransactionID(ctx context.Context, orderIDs []int64, transactionID string) error

	// ListByTransactionID returns the caller's orders carrying the given
	// transaction id and payment method.
	ListByTransactionID(ctx context.Context, userID int64, transactionID string, method model.PaymentMethod) ([]model.Order, error)

	// MarkPaid settles the order set: payment_status=paid and the
	// transaction id overwritten with the gateway payment id.
	MarkPaid(ctx context.Context, orderIDs []int64, paymentID string) error
}
