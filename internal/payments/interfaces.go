package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
)

// Repository defines persistence operations for the payments table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByOrder(ctx context.Context, orderID string) (*models.Payment, error)
	List(ctx context.Context) ([]models.Payment, error)
}

// OrderStore resolves the order a payment settles.
type OrderStore interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)
}
