package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
)

// Payment records a settlement against an order. At most one payment may
// exist per order, enforced by the unique index on order_id.
type Payment struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status        enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	TransactionID *string             `gorm:"column:transaction_id;type:text;uniqueIndex"`
	OrderID       string              `gorm:"column:order_id;type:text;not null;uniqueIndex"`
	Order         *Order              `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
