package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/internal/sequence"
	"github.com/oceanharvest/fishmarket-backend/pkg/db"
	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
	pkgerrors "github.com/oceanharvest/fishmarket-backend/pkg/errors"
	"github.com/oceanharvest/fishmarket-backend/pkg/outbox"
)

const (
	orderPrefix  = "ORD"
	orderIDWidth = 3
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines order-level operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id string, target string) (*OrderDTO, error)
	Get(ctx context.Context, id string) (*OrderDTO, error)
	List(ctx context.Context) ([]OrderDTO, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]OrderDTO, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	users    UserDirectory
	listings ListingStore
	tx       txRunner
	outbox   outboxPublisher
	locker   *sequence.Locker
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, users UserDirectory, listings ListingStore, tx txRunner, ob outboxPublisher, locker *sequence.Locker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	if listings == nil {
		return nil, fmt.Errorf("listing store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if locker == nil {
		return nil, fmt.Errorf("sequence locker required")
	}
	return &service{
		repo:     repo,
		users:    users,
		listings: listings,
		tx:       tx,
		outbox:   ob,
		locker:   locker,
	}, nil
}

// Create validates and prices every requested item before touching the
// sequencer, so a request that fails validation never consumes an identifier.
// The order row and its items are persisted in one transaction.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Order must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity for fish listing %d must be positive", item.FishListingID)
		}
	}

	buyer, err := s.users.FindByID(ctx, input.BuyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "user %s not found", input.BuyerID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer")
	}
	if buyer.Role != enums.UserRoleBuyer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only buyers can place orders")
	}

	items, total, err := s.priceItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	for attempt := 0; attempt < sequence.MaxAttempts; attempt++ {
		created, err = s.tryCreate(ctx, buyer, items, total)
		if err == nil {
			return FromModel(created), nil
		}
		if isOrderIDCollision(err) {
			continue
		}
		return nil, err
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate order identifier")
}

// priceItems resolves every listing and snapshots its current price. A single
// missing listing aborts the whole request naming the offending id.
func (s *service) priceItems(ctx context.Context, inputs []OrderItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	total := decimal.Zero
	for i, in := range inputs {
		listing, err := s.listings.FindByID(ctx, in.FishListingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, pkgerrors.Newf(pkgerrors.CodeNotFound, "fish listing %d not found", in.FishListingID)
			}
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
		}
		subtotal := listing.Price.Mul(decimal.NewFromFloat(in.Quantity))
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			FishListingID:   listing.ID,
			PriceAtPurchase: listing.Price,
			Quantity:        in.Quantity,
			Position:        i,
		})
	}
	return items, total, nil
}

func (s *service) tryCreate(ctx context.Context, buyer *models.User, items []models.OrderItem, total decimal.Decimal) (*models.Order, error) {
	s.locker.Lock(orderPrefix)
	defer s.locker.Unlock(orderPrefix)

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		maxID, err := repo.MaxID(ctx, orderPrefix)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load max order id")
		}
		id, err := sequence.Next(orderPrefix, orderIDWidth, maxID)
		if err != nil {
			return err
		}

		order := &models.Order{
			ID:         id,
			BuyerID:    buyer.ID,
			Status:     enums.OrderStatusPending,
			TotalPrice: total,
		}
		if _, err := repo.Create(ctx, order); err != nil {
			return err
		}

		rows := make([]models.OrderItem, len(items))
		copy(rows, items)
		for i := range rows {
			rows[i].OrderID = id
		}
		if err := repo.CreateItems(ctx, rows); err != nil {
			return err
		}
		order.Items = rows

		check := decimal.Zero
		for _, row := range rows {
			check = check.Add(row.PriceAtPurchase.Mul(decimal.NewFromFloat(row.Quantity)))
		}
		if !check.Equal(order.TotalPrice) {
			return pkgerrors.Newf(pkgerrors.CodeInternal, "order %s total %s does not match item sum %s", id, order.TotalPrice, check)
		}

		created = order
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: buyer.ID, Role: buyer.Role.String()},
			Data: OrderCreatedEvent{
				OrderID:    order.ID,
				BuyerID:    order.BuyerID,
				Status:     order.Status,
				TotalPrice: order.TotalPrice.StringFixed(2),
				ItemCount:  len(rows),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateStatus applies one forward lifecycle transition. The compare-and-set
// against the loaded status serializes concurrent updates to the same order.
func (s *service) UpdateStatus(ctx context.Context, id string, target string) (*OrderDTO, error) {
	to, err := enums.ParseOrderStatus(target)
	if err != nil {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", target)
	}

	var updated *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", id)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if !order.Status.CanTransitionTo(to) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot transition order from %s to %s", order.Status, to)
		}

		changed, err := repo.UpdateStatus(ctx, order.ID, order.Status, to)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !changed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
		}

		from := order.Status
		order.Status = to
		updated = order

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: OrderStatusChangedEvent{
				OrderID:    order.ID,
				BuyerID:    order.BuyerID,
				FromStatus: from,
				ToStatus:   to,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) Get(ctx context.Context, id string) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context) ([]OrderDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return toDTOs(rows), nil
}

func (s *service) ListByBuyer(ctx context.Context, buyerID string) ([]OrderDTO, error) {
	rows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return toDTOs(rows), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", id)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func toDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func isOrderIDCollision(err error) bool {
	return db.IsUniqueViolation(err, "orders_pkey") || db.IsUniqueViolation(err, "orders.id")
}
