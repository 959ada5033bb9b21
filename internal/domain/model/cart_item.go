package model

import "time"

// Cart line. At most one row per (cart, product, variant); adding the same
// combination again increments quantity. No price is stored here — the line
// prices from the product (plus variant adjustment) until materialization.
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;index;uniqueIndex:idx_cart_line" json:"cart_id"`
	ProductID int64     `gorm:"not null;index;uniqueIndex:idx_cart_line" json:"product_id"`
	VariantID *int64    `gorm:"uniqueIndex:idx_cart_line" json:"variant_id,omitempty"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `gorm:"not null;autoCreateTime" json:"added_at"`
}
