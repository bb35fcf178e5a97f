package listings

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

type stubListingsRepo struct {
	byID   map[int64]*models.FishListing
	nextID int64
}

func newStubListingsRepo() *stubListingsRepo {
	return &stubListingsRepo{byID: map[int64]*models.FishListing{}, nextID: 1}
}

func (s *stubListingsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubListingsRepo) Create(ctx context.Context, listing *models.FishListing) (*models.FishListing, error) {
	if listing.ID == 0 {
		listing.ID = s.nextID
		s.nextID++
	}
	s.byID[listing.ID] = listing
	return listing, nil
}

func (s *stubListingsRepo) FindByID(ctx context.Context, id int64) (*models.FishListing, error) {
	listing, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return listing, nil
}

func (s *stubListingsRepo) List(ctx context.Context, filters ListFilters) ([]models.FishListing, error) {
	out := []models.FishListing{}
	for _, listing := range s.byID {
		if filters.Status != nil && listing.Status != *filters.Status {
			continue
		}
		if filters.FishermanID != "" && listing.FishermanID != filters.FishermanID {
			continue
		}
		out = append(out, *listing)
	}
	return out, nil
}

func (s *stubListingsRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	listing, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["price"].(decimal.Decimal); ok {
		listing.Price = v
	}
	if v, ok := updates["status"].(enums.ListingStatus); ok {
		listing.Status = v
	}
	if v, ok := updates["fish_type"].(string); ok {
		listing.FishType = v
	}
	return nil
}

func (s *stubListingsRepo) Delete(ctx context.Context, id int64) error {
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

func fishermanDirectory() *stubUserDirectory {
	return &stubUserDirectory{byID: map[string]*models.User{
		"FISHER0001": {ID: "FISHER0001", Role: enums.UserRoleFisherman},
		"BUY0001":    {ID: "BUY0001", Role: enums.UserRoleBuyer},
	}}
}

func validCreateInput() CreateListingInput {
	return CreateListingInput{
		FishType:    "Yellowfin Tuna",
		WeightKg:    12.5,
		Price:       decimal.RequireFromString("10.00"),
		FishermanID: "FISHER0001",
	}
}

func TestCreateListing(t *testing.T) {
	repo := newStubListingsRepo()
	svc, err := NewService(repo, fishermanDirectory())
	require.NoError(t, err)

	listing, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, enums.ListingStatusAvailable, listing.Status)
	assert.Equal(t, "FISHER0001", listing.FishermanID)
	assert.True(t, listing.Price.Equal(decimal.RequireFromString("10.00")))
}

func TestCreateListingBuyerForbidden(t *testing.T) {
	repo := newStubListingsRepo()
	svc, err := NewService(repo, fishermanDirectory())
	require.NoError(t, err)

	input := validCreateInput()
	input.FishermanID = "BUY0001"
	_, err = svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.Empty(t, repo.byID)
}

func TestCreateListingMissingFisherman(t *testing.T) {
	repo := newStubListingsRepo()
	svc, err := NewService(repo, fishermanDirectory())
	require.NoError(t, err)

	input := validCreateInput()
	input.FishermanID = "FISHER0404"
	_, err = svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateListingInvalidStatus(t *testing.T) {
	repo := newStubListingsRepo()
	svc, err := NewService(repo, fishermanDirectory())
	require.NoError(t, err)

	bad := "FROZEN SOLID"
	input := validCreateInput()
	input.Status = &bad
	_, err = svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateListingPatchSemantics(t *testing.T) {
	repo := newStubListingsRepo()
	svc, err := NewService(repo, fishermanDirectory())
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("12.50")
	updated, err := svc.Update(ctx, created.ID, UpdateListingInput{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, created.FishType, updated.FishType)

	sold := "SOLD"
	updated, err = svc.Update(ctx, created.ID, UpdateListingInput{Status: &sold})
	require.NoError(t, err)
	assert.Equal(t, enums.ListingStatusSold, updated.Status)
}

func TestUpdateListingInvalidStatusLeavesRowUntouched(t *testing.T) {
	repo := newStubListingsRepo()
	svc, err := NewService(repo, fishermanDirectory())
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	bad := "GONE"
	_, err = svc.Update(ctx, created.ID, UpdateListingInput{Status: &bad})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	current, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ListingStatusAvailable, current.Status)
}

func TestGetListingNotFoundNamesID(t *testing.T) {
	repo := newStubListingsRepo()
	svc, err := NewService(repo, fishermanDirectory())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Contains(t, err.Error(), "999")
}
