package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
)

// Repository defines persistence operations for the orders tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindItem(ctx context.Context, itemID int64) (*models.OrderItem, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to enums.OrderStatus) (bool, error)
	Delete(ctx context.Context, id string) error
	MaxID(ctx context.Context, prefix string) (string, error)
}

// UserDirectory resolves buyers referenced by orders.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ListingStore resolves listings so their current price can be snapshotted.
type ListingStore interface {
	FindByID(ctx context.Context, id int64) (*models.FishListing, error)
}
