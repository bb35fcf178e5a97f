package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem captures a priced (listing, quantity) snapshot within an order.
// PriceAtPurchase is copied from the listing at creation time and never
// rewritten afterwards, regardless of later listing price changes.
type OrderItem struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID         string          `gorm:"column:order_id;type:text;not null"`
	FishListingID   int64           `gorm:"column:fish_listing_id;not null"`
	FishListing     *FishListing    `gorm:"foreignKey:FishListingID"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(12,2);not null"`
	Quantity        float64         `gorm:"column:quantity;not null"`
	Position        int             `gorm:"column:position;not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
