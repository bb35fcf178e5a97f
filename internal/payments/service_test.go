package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
	pkgerrors "github.com/oceanharvest/fishmarket-backend/pkg/errors"
)

type stubPaymentsRepo struct {
	byOrder map[string]*models.Payment
	nextID  int64
}

func newStubPaymentsRepo() *stubPaymentsRepo {
	return &stubPaymentsRepo{byOrder: map[string]*models.Payment{}, nextID: 1}
}

func (s *stubPaymentsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubPaymentsRepo) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	payment.ID = s.nextID
	s.nextID++
	s.byOrder[payment.OrderID] = payment
	return payment, nil
}

func (s *stubPaymentsRepo) FindByOrder(ctx context.Context, orderID string) (*models.Payment, error) {
	payment, ok := s.byOrder[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return payment, nil
}

func (s *stubPaymentsRepo) List(ctx context.Context) ([]models.Payment, error) {
	out := make([]models.Payment, 0, len(s.byOrder))
	for _, payment := range s.byOrder {
		out = append(out, *payment)
	}
	return out, nil
}

type stubOrderStore struct {
	byID map[string]*models.Order
}

func (s *stubOrderStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	order, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func newPaymentsService(t *testing.T) (Service, *stubPaymentsRepo) {
	t.Helper()
	repo := newStubPaymentsRepo()
	orders := &stubOrderStore{byID: map[string]*models.Order{
		"ORD001": {ID: "ORD001", BuyerID: "BUY0001", TotalPrice: decimal.RequireFromString("20.00")},
	}}
	svc, err := NewService(repo, orders)
	require.NoError(t, err)
	return svc, repo
}

func TestCreatePayment(t *testing.T) {
	svc, _ := newPaymentsService(t)

	payment, err := svc.Create(context.Background(), CreatePaymentInput{
		OrderID: "ORD001",
		Amount:  decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, "ORD001", payment.OrderID)
}

func TestCreatePaymentScaleTolerantAmount(t *testing.T) {
	svc, _ := newPaymentsService(t)

	// 20.0 and 20.00 are the same amount numerically
	payment, err := svc.Create(context.Background(), CreatePaymentInput{
		OrderID: "ORD001",
		Amount:  decimal.RequireFromString("20.0"),
	})
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("20.00")))
}

func TestCreatePaymentAmountMismatch(t *testing.T) {
	svc, repo := newPaymentsService(t)

	_, err := svc.Create(context.Background(), CreatePaymentInput{
		OrderID: "ORD001",
		Amount:  decimal.RequireFromString("19.99"),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, repo.byOrder)
}

func TestCreatePaymentMissingOrder(t *testing.T) {
	svc, _ := newPaymentsService(t)

	_, err := svc.Create(context.Background(), CreatePaymentInput{
		OrderID: "ORD404",
		Amount:  decimal.RequireFromString("20.00"),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreatePaymentDuplicateConflict(t *testing.T) {
	svc, _ := newPaymentsService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePaymentInput{OrderID: "ORD001", Amount: decimal.RequireFromString("20.00")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreatePaymentInput{OrderID: "ORD001", Amount: decimal.RequireFromString("20.00")})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}
