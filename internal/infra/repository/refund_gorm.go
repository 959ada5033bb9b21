package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type RefundGormRepository struct {
	db *gorm.DB
}

func NewRefundGormRepository(db *gorm.DB) *RefundGormRepository {
	return &RefundGormRepository{db: db}
}

func (r *RefundGormRepository) Create(ctx context.Context, req model.RefundRequest) (model.RefundRequest, error) {
	if err := r.db.WithContext(ctx).Create(&req).Error; err != nil {
		// Unique index on order_id: one refund request per order.
		if strings.Contains(err.Error(), "duplicate") || errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.RefundRequest{}, repo.ErrConflict
		}
		return model.RefundRequest{}, err
	}
	return req, nil
}

func (r *RefundGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.RefundRequest, error) {
	var req model.RefundRequest

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&req).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RefundRequest{}, repo.ErrNotFound
	}
	if err != nil {
		return model.RefundRequest{}, err
	}
	return req, nil
}

func (r *RefundGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.RefundRequest, error) {
	var items []model.RefundRequest

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.RefundRequest{}, err
	}
	return items, nil
}
