package model

import "time"

// At most one row per (user, product).
type WishlistItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:idx_wishlist_pair" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_wishlist_pair" json:"product_id"`
	AddedAt   time.Time `gorm:"not null;autoCreateTime" json:"added_at"`
}
