package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount code. When both a flat amount and a percentage are configured the
// flat amount takes precedence. MaxUses nil means unlimited.
type Coupon struct {
	ID                 int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Code               string           `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	DiscountPercentage decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percentage"`
	DiscountFlat       *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_flat,omitempty"`
	MinOrderValue      decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"min_order_value"`
	MaxUses            *int64           `json:"max_uses,omitempty"`
	UsedCount          int64            `gorm:"not null;default:0" json:"used_count"`
	IsActive           bool             `gorm:"not null;default:true" json:"is_active"`
	ValidFrom          time.Time        `gorm:"not null" json:"valid_from"`
	ValidTill          time.Time        `gorm:"not null" json:"valid_till"`
	CreatedAt          time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (c Coupon) IsValidAt(t time.Time) bool {
	return c.IsActive && !t.Before(c.ValidFrom) && !t.After(c.ValidTill)
}

func (c Coupon) UsageExhausted() bool {
	return c.MaxUses != nil && c.UsedCount >= *c.MaxUses
}
