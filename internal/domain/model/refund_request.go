package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusApproved  RefundStatus = "approved"
	RefundStatusRejected  RefundStatus = "rejected"
	RefundStatusProcessed RefundStatus = "processed"
)

type RefundReason string

const (
	RefundReasonDamaged        RefundReason = "damaged"
	RefundReasonDefective      RefundReason = "defective"
	RefundReasonNotAsDescribed RefundReason = "not_as_described"
	RefundReasonChangedMind    RefundReason = "changed_mind"
	RefundReasonWrongItem      RefundReason = "wrong_item"
	RefundReasonOther          RefundReason = "other"
)

func (r RefundReason) Valid() bool {
	switch r {
	case RefundReasonDamaged, RefundReasonDefective, RefundReasonNotAsDescribed,
		RefundReasonChangedMind, RefundReasonWrongItem, RefundReasonOther:
		return true
	}
	return false
}

// One per order, raised by the purchaser after delivery. Seller/admin
// resolution moves it to approved/rejected and finally processed.
type RefundRequest struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64           `gorm:"not null;uniqueIndex" json:"order_id"`
	UserID       int64           `gorm:"not null;index" json:"user_id"`
	Reason       RefundReason    `gorm:"type:varchar(20);not null" json:"reason"`
	Description  string          `gorm:"type:text" json:"description"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"refund_amount"`
	Status       RefundStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
