package reviews

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/pkg/db"
	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
	pkgerrors "github.com/oceanharvest/fishmarket-backend/pkg/errors"
	"github.com/oceanharvest/fishmarket-backend/pkg/outbox"
)

const (
	minRating = 1
	maxRating = 5
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines review-level operations.
type Service interface {
	Attach(ctx context.Context, input AttachReviewInput) (*ReviewDTO, error)
	Get(ctx context.Context, id int64) (*ReviewDTO, error)
	List(ctx context.Context) ([]ReviewDTO, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]ReviewDTO, error)
	Update(ctx context.Context, id int64, input UpdateReviewInput) (*ReviewDTO, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo   Repository
	users  UserDirectory
	orders OrderStore
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds a reviews service with the required dependencies.
func NewService(repo Repository, users UserDirectory, orders OrderStore, tx txRunner, ob outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, users: users, orders: orders, tx: tx, outbox: ob}, nil
}

// Attach validates the rating, resolves buyer and line item independently,
// rejects duplicates, and enforces that the reviewer is the order's buyer
// before persisting. The unique index on order_item_id backstops the
// duplicate check under concurrency.
func (s *service) Attach(ctx context.Context, input AttachReviewInput) (*ReviewDTO, error) {
	if input.Rating < minRating || input.Rating > maxRating {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "rating must be between %d and %d", minRating, maxRating)
	}

	buyer, err := s.users.FindByID(ctx, input.BuyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "user %s not found", input.BuyerID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer")
	}

	item, err := s.orders.FindItem(ctx, input.OrderItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order item %d not found", input.OrderItemID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order item")
	}

	if _, err := s.repo.FindByOrderItem(ctx, item.ID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Review for this order item already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
	}

	order, err := s.orders.FindByID(ctx, item.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", item.OrderID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owning order")
	}
	if order.BuyerID != buyer.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the order's buyer may review its items")
	}

	var created *models.Review
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		review := &models.Review{
			Rating:      input.Rating,
			Comment:     input.Comment,
			BuyerID:     buyer.ID,
			OrderItemID: item.ID,
		}
		if _, err := repo.Create(ctx, review); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "Review for this order item already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
		}
		created = review

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventReviewCreated,
			AggregateType: enums.AggregateReview,
			AggregateID:   fmt.Sprintf("%d", review.ID),
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: buyer.ID, Role: buyer.Role.String()},
			Data: ReviewCreatedEvent{
				ReviewID:    review.ID,
				BuyerID:     review.BuyerID,
				OrderItemID: review.OrderItemID,
				Rating:      review.Rating,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id int64) (*ReviewDTO, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "review %d not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return FromModel(review), nil
}

func (s *service) List(ctx context.Context) ([]ReviewDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return toDTOs(rows), nil
}

func (s *service) ListByBuyer(ctx context.Context, buyerID string) ([]ReviewDTO, error) {
	rows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer reviews")
	}
	return toDTOs(rows), nil
}

// Update lets the review's author adjust rating or comment.
func (s *service) Update(ctx context.Context, id int64, input UpdateReviewInput) (*ReviewDTO, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "review %d not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if review.BuyerID != input.BuyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the review's author may update it")
	}

	updates := map[string]any{}
	if input.Rating != nil {
		if *input.Rating < minRating || *input.Rating > maxRating {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "rating must be between %d and %d", minRating, maxRating)
		}
		updates["rating"] = *input.Rating
	}
	if input.Comment != nil {
		updates["comment"] = *input.Comment
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "review %d not found", id)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func toDTOs(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
