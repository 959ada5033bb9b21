package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type InvoiceRepository interface {
	// Create persists the invoice and links it to orderIDs. orderIDs must
	// be non-empty.
	Create(ctx context.Context, inv model.Invoice, orderIDs []int64) (model.Invoice, error)

	// FindByID returns the invoice with its orders preloaded.
	FindByID(ctx context.Context, invoiceID int64) (model.Invoice, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Invoice, error)

	IsOwnedByUser(ctx context.Context, invoiceID int64, userID int64) (bool, error)

	// ExistsForOrder reports whether any invoice already references the
	// order. Guards verification replays against duplicate invoices.
	ExistsForOrder(ctx context.Context, orderID int64) (bool, error)
}
