package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryTech    ProductCategory = "tech"
	CategoryFashion ProductCategory = "fashion"
	CategoryHome    ProductCategory = "home"
	CategoryBeauty  ProductCategory = "beauty"
)

// Order lines reference products, they never copy them. Title and unit
// price are snapshotted onto the order at materialization, so soft delete
// here must not cascade into order history.
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID    int64           `gorm:"not null;index" json:"seller_id"`
	Title       string          `gorm:"type:varchar(200);not null" json:"title"`
	Brand       string          `gorm:"type:varchar(100)" json:"brand"`
	Description string          `gorm:"type:text" json:"description"`
	Category    ProductCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StockCount  int64           `gorm:"not null;default:0" json:"stock_count"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p Product) InStock() bool {
	return p.StockCount > 0
}
