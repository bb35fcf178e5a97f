package payments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
)

// PaymentDTO is the transport shape for a payment.
type PaymentDTO struct {
	ID            int64               `json:"id"`
	Amount        decimal.Decimal     `json:"amount"`
	Status        enums.PaymentStatus `json:"status"`
	TransactionID *string             `json:"transaction_id,omitempty"`
	OrderID       string              `json:"order_id"`
	CreatedAt     time.Time           `json:"created_at"`
}

// CreatePaymentInput carries the fields accepted when recording a payment.
type CreatePaymentInput struct {
	OrderID       string
	Amount        decimal.Decimal
	TransactionID *string
}

// FromModel converts a persisted payment into its transport shape.
func FromModel(p *models.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:            p.ID,
		Amount:        p.Amount,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		OrderID:       p.OrderID,
		CreatedAt:     p.CreatedAt,
	}
}
