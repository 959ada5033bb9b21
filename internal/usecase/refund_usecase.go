package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type RefundUsecase struct {
	refundRepo repo.RefundRepository
	orderRepo  repo.OrderRepository
}

func NewRefundUsecase(refundRepo repo.RefundRepository, orderRepo repo.OrderRepository) *RefundUsecase {
	return &RefundUsecase{refundRepo: refundRepo, orderRepo: orderRepo}
}

type CreateRefundInput struct {
	OrderID     int64           `json:"order_id"`
	Reason      string          `json:"reason"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Create raises a refund request on the caller's own delivered order.
// At most one request per order; the amount is clamped to what was paid.
func (u *RefundUsecase) Create(ctx context.Context, userID int64, in CreateRefundInput) (model.RefundRequest, error) {
	if userID <= 0 {
		return model.RefundRequest{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	reason := model.RefundReason(in.Reason)
	if !reason.Valid() {
		return model.RefundRequest{}, NewHTTPError(http.StatusBadRequest, "invalid reason")
	}

	o, err := u.orderRepo.FindByID(ctx, in.OrderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.RefundRequest{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return model.RefundRequest{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		return model.RefundRequest{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if o.Status != model.OrderStatusDelivered {
		return model.RefundRequest{}, NewHTTPError(http.StatusBadRequest, "refunds are available after delivery")
	}

	amount := in.Amount
	paid := o.TotalPrice()
	if !amount.IsPositive() || amount.GreaterThan(paid) {
		amount = paid
	}

	created, err := u.refundRepo.Create(ctx, model.RefundRequest{
		OrderID:      o.ID,
		UserID:       userID,
		Reason:       reason,
		Description:  in.Description,
		RefundAmount: amount,
		Status:       model.RefundStatusPending,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.RefundRequest{}, NewHTTPError(http.StatusConflict, "a refund request already exists for this order")
	}
	if err != nil {
		return model.RefundRequest{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *RefundUsecase) ListMine(ctx context.Context, userID int64) ([]model.RefundRequest, error) {
	if userID <= 0 {
		return []model.RefundRequest{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	reqs, err := u.refundRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []model.RefundRequest{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return reqs, nil
}

func (u *RefundUsecase) GetForOrder(ctx context.Context, userID int64, orderID int64) (model.RefundRequest, error) {
	if userID <= 0 {
		return model.RefundRequest{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	req, err := u.refundRepo.FindByOrderID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.RefundRequest{}, NewHTTPError(http.StatusNotFound, "refund request not found")
	}
	if err != nil {
		return model.RefundRequest{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if req.UserID != userID {
		return model.RefundRequest{}, NewHTTPError(http.StatusNotFound, "refund request not found")
	}
	return req, nil
}
