package payments

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/pkg/db"
	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
	pkgerrors "github.com/oceanharvest/fishmarket-backend/pkg/errors"
)

// Service defines payment-level operations.
type Service interface {
	Create(ctx context.Context, input CreatePaymentInput) (*PaymentDTO, error)
	GetByOrder(ctx context.Context, orderID string) (*PaymentDTO, error)
	List(ctx context.Context) ([]PaymentDTO, error)
}

type service struct {
	repo   Repository
	orders OrderStore
}

// NewService builds a payments service with the required dependencies.
func NewService(repo Repository, orders OrderStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	return &service{repo: repo, orders: orders}, nil
}

// Create records a settlement for an order. The amount must equal the order's
// total exactly; comparison is numeric so "20.0" settles a "20.00" total.
func (s *service) Create(ctx context.Context, input CreatePaymentInput) (*PaymentDTO, error) {
	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", input.OrderID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !input.Amount.Equal(order.TotalPrice) {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation,
			"payment amount %s does not match order total %s",
			input.Amount.StringFixed(2), order.TotalPrice.StringFixed(2))
	}

	if _, err := s.repo.FindByOrder(ctx, order.ID); err == nil {
		return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "payment for order %s already exists", order.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing payment")
	}

	payment := &models.Payment{
		Amount:        input.Amount,
		Status:        enums.PaymentStatusCompleted,
		TransactionID: input.TransactionID,
		OrderID:       order.ID,
	}
	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "payment for order %s already exists", order.ID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}
	return FromModel(created), nil
}

func (s *service) GetByOrder(ctx context.Context, orderID string) (*PaymentDTO, error) {
	payment, err := s.repo.FindByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "payment for order %s not found", orderID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	return FromModel(payment), nil
}

func (s *service) List(ctx context.Context) ([]PaymentDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}
