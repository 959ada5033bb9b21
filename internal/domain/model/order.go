package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPacked    OrderStatus = "packed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Fulfilment moves forward only.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPacked:    1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	a, ok1 := orderStatusRank[s]
	b, ok2 := orderStatusRank[next]
	return ok1 && ok2 && b > a
}

type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "cod"
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodUPIQR    PaymentMethod = "upi_qr"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodRazorpay, PaymentMethodUPIQR:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Defaults stamped when checkout is submitted without contact info.
// Checkout never hard-fails on a missing address or mobile.
const (
	DefaultShippingAddress = "Not Provided"
	DefaultMobile          = "0000000000"
)

// Flat line-item order, immutable after creation. Product is a weak
// reference: deleting the product must not cascade here, which is why
// title and unit price are snapshotted.
//
// UnitPrice is always the per-unit price; Discount is this line's
// allocated share of any coupon discount. The payable total is derived,
// never stored.
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64           `gorm:"not null;index" json:"user_id"`
	ProductID       *int64          `gorm:"index" json:"product_id,omitempty"`
	ProductName     string          `gorm:"type:varchar(200);not null" json:"product_name"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity        int64           `gorm:"not null;default:1" json:"quantity"`
	Discount        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	TransactionID   *string         `gorm:"type:varchar(100);index" json:"transaction_id,omitempty"`
	ShippingAddress string          `gorm:"type:text;not null;default:'Not Provided'" json:"shipping_address"`
	Mobile          string          `gorm:"type:varchar(15);not null;default:'0000000000'" json:"mobile"`
	OrderedAt       time.Time       `gorm:"not null;autoCreateTime;index" json:"ordered_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// TotalPrice is the payable extended price: unit price × quantity minus the
// allocated discount, never below zero.
func (o Order) TotalPrice() decimal.Decimal {
	total := o.UnitPrice.Mul(decimal.NewFromInt(o.Quantity)).Sub(o.Discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
