package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot document over one or more orders. Immutable once issued.
// The number embeds the owner's user id (or the order id in legacy
// per-order mode) so two users invoiced at the same instant cannot collide.
type Invoice struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	IssuedAt      time.Time       `gorm:"not null;autoCreateTime" json:"issued_at"`

	Orders []Order `gorm:"many2many:invoice_orders" json:"orders,omitempty"`
}
