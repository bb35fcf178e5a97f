package listings

import (
	"context"

	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
)

// Repository defines persistence operations for the fish_listings table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, listing *models.FishListing) (*models.FishListing, error)
	FindByID(ctx context.Context, id int64) (*models.FishListing, error)
	List(ctx context.Context, filters ListFilters) ([]models.FishListing, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// UserDirectory resolves users when validating listing ownership.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}
