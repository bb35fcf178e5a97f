package reviews

import (
	"context"

	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
)

// Repository defines persistence operations for the reviews table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	FindByID(ctx context.Context, id int64) (*models.Review, error)
	FindByOrderItem(ctx context.Context, orderItemID int64) (*models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]models.Review, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// UserDirectory resolves the reviewing buyer.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// OrderStore resolves line items and their owning orders for the ownership check.
type OrderStore interface {
	FindItem(ctx context.Context, itemID int64) (*models.OrderItem, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
}
