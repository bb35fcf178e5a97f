package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
)

// Order aggregates one or more line items purchased by a single buyer.
// The primary key is a sequential human-readable id such as ORD001.
type Order struct {
	ID         string            `gorm:"column:id;type:text;primaryKey"`
	BuyerID    string            `gorm:"column:buyer_id;type:text;not null"`
	Buyer      *User             `gorm:"foreignKey:BuyerID"`
	Status     enums.OrderStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	TotalPrice decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null"`
	Items      []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
