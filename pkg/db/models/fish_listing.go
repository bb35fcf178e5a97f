package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
)

// FishListing represents a sellable catch owned by a fisherman.
type FishListing struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	FishType    string              `gorm:"column:fish_type;not null"`
	WeightKg    float64             `gorm:"column:weight_kg;not null"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	PhotoURL    *string             `gorm:"column:photo_url"`
	CatchDate   *time.Time          `gorm:"column:catch_date"`
	Location    *string             `gorm:"column:location"`
	Status      enums.ListingStatus `gorm:"column:status;type:text;not null;default:'AVAILABLE'"`
	FishermanID string              `gorm:"column:fisherman_id;type:text;not null"`
	Fisherman   *User               `gorm:"foreignKey:FishermanID"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
