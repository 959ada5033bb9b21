package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type SellerOrderUsecase struct {
	tx        repo.TransactionManager
	orderRepo repo.OrderRepository
}

func NewSellerOrderUsecase(tx repo.TransactionManager, orderRepo repo.OrderRepository) *SellerOrderUsecase {
	return &SellerOrderUsecase{tx: tx, orderRepo: orderRepo}
}

type SellerOrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// ListOrders returns orders whose snapshotted product belongs to the seller.
func (u *SellerOrderUsecase) ListOrders(ctx context.Context, sellerID int64, page, limit int) (SellerOrderListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	orders, total, err := u.orderRepo.ListBySellerID(ctx, sellerID, page, limit)
	if err != nil {
		return SellerOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return SellerOrderListOutput{
		Orders: toOrderOutputs(orders),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}

// UpdateStatus advances fulfilment. Transitions are forward-only and
// restricted to the seller who owns the underlying product.
func (u *SellerOrderUsecase) UpdateStatus(ctx context.Context, sellerID int64, orderID int64, next model.OrderStatus) (OrderOutput, error) {
	if !next.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var updated model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if o.ProductID == nil {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		p, err := r.Products().FindByID(ctx, *o.ProductID)
		if errors.Is(err, repo.ErrNotFound) || (err == nil && p.SellerID != sellerID) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !o.Status.CanTransitionTo(next) {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("cannot move order from %s to %s", o.Status, next))
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		_ = r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  sellerID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			Detail:       fmt.Sprintf("from=%s to=%s", o.Status, next),
		})

		o.Status = next
		updated = o
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	return toOrderOutput(updated), nil
}
