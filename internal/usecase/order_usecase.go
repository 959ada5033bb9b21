package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type OrderUsecase struct {
	orderRepo   repo.OrderRepository
	productRepo repo.ProductRepository
}

func NewOrderUsecase(orderRepo repo.OrderRepository, productRepo repo.ProductRepository) *OrderUsecase {
	return &OrderUsecase{orderRepo: orderRepo, productRepo: productRepo}
}

type OrderOutput struct {
	ID              int64           `json:"id"`
	ProductID       *int64          `json:"product_id,omitempty"`
	ProductName     string          `json:"product_name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int64           `json:"quantity"`
	Discount        decimal.Decimal `json:"discount"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	TransactionID   *string         `json:"transaction_id,omitempty"`
	ShippingAddress string          `json:"shipping_address"`
	Mobile          string          `json:"mobile"`
	OrderedAt       time.Time       `json:"ordered_at"`
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:              o.ID,
		ProductID:       o.ProductID,
		ProductName:     o.ProductName,
		UnitPrice:       o.UnitPrice,
		Quantity:        o.Quantity,
		Discount:        o.Discount,
		TotalPrice:      o.TotalPrice(),
		Status:          string(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		TransactionID:   o.TransactionID,
		ShippingAddress: o.ShippingAddress,
		Mobile:          o.Mobile,
		OrderedAt:       o.OrderedAt,
	}
}

func toOrderOutputs(orders []model.Order) []OrderOutput {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs
}

type BuyNowInput struct {
	ProductID int64
	Quantity  int64
}

// BuyNow is the legacy single-item flow: it creates a pending order row
// directly from a product. Pending orders become the priority line source
// at checkout, where they are re-stamped and confirmed.
func (u *OrderUsecase) BuyNow(ctx context.Context, userID int64, in BuyNowInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive || !p.InStock() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "product not available")
	}

	productID := p.ID
	order := model.Order{
		UserID:          userID,
		ProductID:       &productID,
		ProductName:     p.Title,
		UnitPrice:       p.Price,
		Quantity:        in.Quantity,
		Status:          model.OrderStatusPending,
		PaymentMethod:   model.PaymentMethodCOD,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingAddress: model.DefaultShippingAddress,
		Mobile:          model.DefaultMobile,
	}

	id, err := u.orderRepo.Create(ctx, order)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	order.ID = id

	return toOrderOutput(order), nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, _, err := u.orderRepo.ListByUserID(ctx, userID, 1, 50)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutputs(orders), nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		// Foreign orders read as absent.
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return toOrderOutput(o), nil
}
