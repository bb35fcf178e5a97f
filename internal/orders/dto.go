package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
)

// OrderItemDTO is the transport shape for one line item.
type OrderItemDTO struct {
	ID              int64           `json:"id"`
	FishListingID   int64           `json:"fish_listing_id"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Quantity        float64         `json:"quantity"`
}

// OrderDTO is the transport shape for an order with its items.
type OrderDTO struct {
	ID         string            `json:"id"`
	BuyerID    string            `json:"buyer_id"`
	Status     enums.OrderStatus `json:"status"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Items      []OrderItemDTO    `json:"items"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// OrderItemInput is one requested (listing, quantity) pair.
type OrderItemInput struct {
	FishListingID int64
	Quantity      float64
}

// CreateOrderInput carries the fields accepted when placing an order.
type CreateOrderInput struct {
	BuyerID string
	Items   []OrderItemInput
}

// OrderCreatedEvent is emitted when an order is persisted.
type OrderCreatedEvent struct {
	OrderID    string            `json:"order_id"`
	BuyerID    string            `json:"buyer_id"`
	Status     enums.OrderStatus `json:"status"`
	TotalPrice string            `json:"total_price"`
	ItemCount  int               `json:"item_count"`
}

// OrderStatusChangedEvent is emitted on every lifecycle transition.
type OrderStatusChangedEvent struct {
	OrderID    string            `json:"order_id"`
	BuyerID    string            `json:"buyer_id"`
	FromStatus enums.OrderStatus `json:"from_status"`
	ToStatus   enums.OrderStatus `json:"to_status"`
}

// FromModel converts a persisted order into its transport shape.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:              item.ID,
			FishListingID:   item.FishListingID,
			PriceAtPurchase: item.PriceAtPurchase,
			Quantity:        item.Quantity,
		})
	}
	return &OrderDTO{
		ID:         o.ID,
		BuyerID:    o.BuyerID,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		Items:      items,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
