package model

import "github.com/shopspring/decimal"

// Variant of a product (size, color, spec). The adjustment is added to the
// product's base price when the variant is selected.
type ProductVariant struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       int64           `gorm:"not null;index;uniqueIndex:idx_variant_key" json:"product_id"`
	VariantType     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_variant_key" json:"variant_type"`
	VariantValue    string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_variant_key" json:"variant_value"`
	PriceAdjustment decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price_adjustment"`
	StockCount      int64           `gorm:"not null;default:0" json:"stock_count"`
}
