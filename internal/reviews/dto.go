package reviews

import (
	"time"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
)

// ReviewDTO is the transport shape for a review.
type ReviewDTO struct {
	ID          int64     `json:"id"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
	BuyerID     string    `json:"buyer_id"`
	OrderItemID int64     `json:"order_item_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AttachReviewInput carries the fields accepted when attaching a review.
type AttachReviewInput struct {
	BuyerID     string
	OrderItemID int64
	Rating      int
	Comment     *string
}

// UpdateReviewInput is a patch applied by the review's author.
type UpdateReviewInput struct {
	BuyerID string
	Rating  *int
	Comment *string
}

// ReviewCreatedEvent is emitted when a review is persisted.
type ReviewCreatedEvent struct {
	ReviewID    int64  `json:"review_id"`
	BuyerID     string `json:"buyer_id"`
	OrderItemID int64  `json:"order_item_id"`
	Rating      int    `json:"rating"`
}

// FromModel converts a persisted review into its transport shape.
func FromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:          r.ID,
		Rating:      r.Rating,
		Comment:     r.Comment,
		BuyerID:     r.BuyerID,
		OrderItemID: r.OrderItemID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
