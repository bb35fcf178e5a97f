package reviews

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
	pkgerrors "github.com/oceanharvest/fishmarket-backend/pkg/errors"
	"github.com/oceanharvest/fishmarket-backend/pkg/outbox"
)

type stubReviewsRepo struct {
	byID   map[int64]*models.Review
	nextID int64
}

func newStubReviewsRepo() *stubReviewsRepo {
	return &stubReviewsRepo{byID: map[int64]*models.Review{}, nextID: 1}
}

func (s *stubReviewsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubReviewsRepo) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	for _, existing := range s.byID {
		if existing.OrderItemID == review.OrderItemID {
			return nil, fmt.Errorf("duplicate key value violates unique constraint \"idx_reviews_order_item_id\"")
		}
	}
	review.ID = s.nextID
	s.nextID++
	s.byID[review.ID] = review
	return review, nil
}

func (s *stubReviewsRepo) FindByID(ctx context.Context, id int64) (*models.Review, error) {
	review, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return review, nil
}

func (s *stubReviewsRepo) FindByOrderItem(ctx context.Context, orderItemID int64) (*models.Review, error) {
	for _, review := range s.byID {
		if review.OrderItemID == orderItemID {
			return review, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReviewsRepo) List(ctx context.Context) ([]models.Review, error) {
	out := make([]models.Review, 0, len(s.byID))
	for _, review := range s.byID {
		out = append(out, *review)
	}
	return out, nil
}

func (s *stubReviewsRepo) ListByBuyer(ctx context.Context, buyerID string) ([]models.Review, error) {
	out := []models.Review{}
	for _, review := range s.byID {
		if review.BuyerID == buyerID {
			out = append(out, *review)
		}
	}
	return out, nil
}

func (s *stubReviewsRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	review, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["rating"].(int); ok {
		review.Rating = v
	}
	if v, ok := updates["comment"].(string); ok {
		review.Comment = &v
	}
	return nil
}

func (s *stubReviewsRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.byID, id)
	return nil
}

type stubUserDirectory struct {
	byID map[string]*models.User
}

func (s *stubUserDirectory) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubOrderStore struct {
	orders map[string]*models.Order
	items  map[int64]*models.OrderItem
}

func (s *stubOrderStore) FindItem(ctx context.Context, itemID int64) (*models.OrderItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubOrderStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type reviewsFixture struct {
	repo   *stubReviewsRepo
	outbox *stubOutboxPublisher
	svc    Service
}

func newReviewsFixture(t *testing.T) *reviewsFixture {
	t.Helper()
	repo := newStubReviewsRepo()
	users := &stubUserDirectory{byID: map[string]*models.User{
		"BUY0001": {ID: "BUY0001", Role: enums.UserRoleBuyer},
		"BUY0002": {ID: "BUY0002", Role: enums.UserRoleBuyer},
	}}
	orders := &stubOrderStore{
		orders: map[string]*models.Order{
			"ORD001": {ID: "ORD001", BuyerID: "BUY0001", Status: enums.OrderStatusCompleted},
		},
		items: map[int64]*models.OrderItem{
			10: {ID: 10, OrderID: "ORD001", FishListingID: 1},
		},
	}
	ob := &stubOutboxPublisher{}
	svc, err := NewService(repo, users, orders, stubTxRunner{}, ob)
	require.NoError(t, err)
	return &reviewsFixture{repo: repo, outbox: ob, svc: svc}
}

func TestAttachReview(t *testing.T) {
	f := newReviewsFixture(t)
	comment := "Fresh and well packed"

	review, err := f.svc.Attach(context.Background(), AttachReviewInput{
		BuyerID:     "BUY0001",
		OrderItemID: 10,
		Rating:      5,
		Comment:     &comment,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "BUY0001", review.BuyerID)
	assert.Equal(t, int64(10), review.OrderItemID)

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, enums.EventReviewCreated, f.outbox.events[0].EventType)
}

func TestAttachReviewOutOfRangeRating(t *testing.T) {
	f := newReviewsFixture(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.Attach(context.Background(), AttachReviewInput{
			BuyerID:     "BUY0001",
			OrderItemID: 10,
			Rating:      rating,
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	}
	assert.Empty(t, f.repo.byID)
}

func TestAttachReviewBuyerAndItemNotFoundAreDistinct(t *testing.T) {
	f := newReviewsFixture(t)
	ctx := context.Background()

	_, err := f.svc.Attach(ctx, AttachReviewInput{BuyerID: "BUY0404", OrderItemID: 10, Rating: 4})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Contains(t, err.Error(), "BUY0404")

	_, err = f.svc.Attach(ctx, AttachReviewInput{BuyerID: "BUY0001", OrderItemID: 404, Rating: 4})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Contains(t, err.Error(), "order item 404")
}

func TestAttachReviewForeignBuyerForbidden(t *testing.T) {
	f := newReviewsFixture(t)

	_, err := f.svc.Attach(context.Background(), AttachReviewInput{
		BuyerID:     "BUY0002",
		OrderItemID: 10,
		Rating:      4,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.Empty(t, f.repo.byID)
}

func TestAttachReviewDuplicateConflict(t *testing.T) {
	f := newReviewsFixture(t)
	ctx := context.Background()

	first, err := f.svc.Attach(ctx, AttachReviewInput{BuyerID: "BUY0001", OrderItemID: 10, Rating: 5})
	require.NoError(t, err)

	_, err = f.svc.Attach(ctx, AttachReviewInput{BuyerID: "BUY0001", OrderItemID: 10, Rating: 1})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Contains(t, err.Error(), "already exists")

	// first review unchanged
	reloaded, err := f.svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Rating)
}

func TestUpdateReviewAuthorOnly(t *testing.T) {
	f := newReviewsFixture(t)
	ctx := context.Background()

	review, err := f.svc.Attach(ctx, AttachReviewInput{BuyerID: "BUY0001", OrderItemID: 10, Rating: 3})
	require.NoError(t, err)

	newRating := 4
	updated, err := f.svc.Update(ctx, review.ID, UpdateReviewInput{BuyerID: "BUY0001", Rating: &newRating})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	_, err = f.svc.Update(ctx, review.ID, UpdateReviewInput{BuyerID: "BUY0002", Rating: &newRating})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}
