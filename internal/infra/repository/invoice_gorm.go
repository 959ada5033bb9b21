package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) Create(ctx context.Context, inv model.Invoice, orderIDs []int64) (model.Invoice, error) {
	if len(orderIDs) == 0 {
		return model.Invoice{}, errors.New("invoice must reference at least one order")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		var orders []model.Order
		if err := tx.Where("id IN ?", orderIDs).Find(&orders).Error; err != nil {
			return err
		}
		if len(orders) != len(orderIDs) {
			return repo.ErrNotFound
		}

		return tx.Model(&inv).Association("Orders").Append(&orders)
	})

	if err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceGormRepository) FindByID(ctx context.Context, invoiceID int64) (model.Invoice, error) {
	var inv model.Invoice

	err := r.db.WithContext(ctx).
		Preload("Orders").
		Where("id = ?", invoiceID).
		First(&inv).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Invoice{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Invoice, error) {
	var items []model.Invoice

	err := r.db.WithContext(ctx).
		Preload("Orders").
		Joins("join invoice_orders on invoice_orders.invoice_id = invoices.id").
		Joins("join orders on orders.id = invoice_orders.order_id").
		Where("orders.user_id = ?", userID).
		Distinct("invoices.*").
		Order("invoices.issued_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Invoice{}, err
	}
	return items, nil
}

// Ownership via any linked order; foreign invoices read as absent.
func (r *InvoiceGormRepository) IsOwnedByUser(ctx context.Context, invoiceID int64, userID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Table("invoice_orders").
		Joins("join orders on orders.id = invoice_orders.order_id").
		Where("invoice_orders.invoice_id = ? AND orders.user_id = ?", invoiceID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *InvoiceGormRepository) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Table("invoice_orders").
		Where("order_id = ?", orderID).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}
