package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByIDs(ctx context.Context, orderIDs []int64) ([]model.Order, error) {
	var items []model.Order
	if len(orderIDs) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", orderIDs).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.Order, int64, error) {
	base := r.db.WithContext(ctx).
		Table("orders").
		Joins("join products on products.id = orders.product_id").
		Where("products.seller_id = ?", sellerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (page - 1) * limit
	err := base.
		Select("orders.*").
		Order("orders.id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) ListPendingByUserIDForUpdate(ctx context.Context, userID int64) ([]model.Order, error) {
	var items []model.Order

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, model.OrderStatusPending).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) StampCheckout(ctx context.Context, orderIDs []int64, address string, mobile string, method model.PaymentMethod, transactionID *string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id IN ?", orderIDs).
		Updates(map[string]interface{}{
			"status":           model.OrderStatusPacked,
			"shipping_address": address,
			"mobile":           mobile,
			"payment_method":   method,
			"payment_status":   model.PaymentStatusPending,
			"transaction_id":   transactionID,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(orderIDs)) {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// All-or-nothing: anything short of the full set is an error so the caller's
// transaction rolls back instead of leaving the set partially attached.
func (r *OrderGormRepository) AttachTransactionID(ctx context.Context, orderIDs []int64, transactionID string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id IN ?", orderIDs).
		Update("transaction_id", transactionID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(orderIDs)) {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) ListByTransactionID(ctx context.Context, userID int64, transactionID string, method model.PaymentMethod) ([]model.Order, error) {
	var items []model.Order

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND transaction_id = ? AND payment_method = ?", userID, transactionID, method).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) MarkPaid(ctx context.Context, orderIDs []int64, paymentID string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id IN ?", orderIDs).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusPaid,
			"transaction_id": paymentID,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(orderIDs)) {
		return repo.ErrNotFound
	}
	return nil
}
