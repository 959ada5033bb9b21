package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type RefundRepository interface {
	Create(ctx context.Context, req model.RefundRequest) (model.RefundRequest, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.RefundRequest, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.RefundRequest, error)
}
