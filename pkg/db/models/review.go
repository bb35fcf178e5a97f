package models

import "time"

// Review is a buyer's feedback on a single order item. The unique index on
// order_item_id enforces the one-review-per-line-item rule at the store level.
type Review struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Rating      int        `gorm:"column:rating;not null"`
	Comment     *string    `gorm:"column:comment"`
	BuyerID     string     `gorm:"column:buyer_id;type:text;not null"`
	Buyer       *User      `gorm:"foreignKey:BuyerID"`
	OrderItemID int64      `gorm:"column:order_item_id;not null;uniqueIndex"`
	OrderItem   *OrderItem `gorm:"foreignKey:OrderItemID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
