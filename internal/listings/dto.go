package listings

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
)

// ListingDTO is the transport shape for a fish listing.
type ListingDTO struct {
	ID          int64               `json:"id"`
	FishType    string              `json:"fish_type"`
	WeightKg    float64             `json:"weight_kg"`
	Price       decimal.Decimal     `json:"price"`
	PhotoURL    *string             `json:"photo_url,omitempty"`
	CatchDate   *time.Time          `json:"catch_date,omitempty"`
	Location    *string             `json:"location,omitempty"`
	Status      enums.ListingStatus `json:"status"`
	FishermanID string              `json:"fisherman_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// CreateListingInput carries the fields accepted when creating a listing.
type CreateListingInput struct {
	FishType    string
	WeightKg    float64
	Price       decimal.Decimal
	PhotoURL    *string
	CatchDate   *time.Time
	Location    *string
	Status      *string
	FishermanID string
}

// UpdateListingInput is a patch; only non-nil fields are applied.
type UpdateListingInput struct {
	FishType  *string
	WeightKg  *float64
	Price     *decimal.Decimal
	PhotoURL  *string
	CatchDate *time.Time
	Location  *string
	Status    *string
}

// ListFilters narrows the listings returned by List.
type ListFilters struct {
	Status      *enums.ListingStatus
	FishermanID string
}

// FromModel converts a persisted listing into its transport shape.
func FromModel(l *models.FishListing) *ListingDTO {
	if l == nil {
		return nil
	}
	return &ListingDTO{
		ID:          l.ID,
		FishType:    l.FishType,
		WeightKg:    l.WeightKg,
		Price:       l.Price,
		PhotoURL:    l.PhotoURL,
		CatchDate:   l.CatchDate,
		Location:    l.Location,
		Status:      l.Status,
		FishermanID: l.FishermanID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
