package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/oceanharvest/fishmarket-backend/pkg/db/models"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
	pkgerrors "github.com/oceanharvest/fishmarket-backend/pkg/errors"
)

// Service defines listing-level operations.
type Service interface {
	Create(ctx context.Context, input CreateListingInput) (*ListingDTO, error)
	Get(ctx context.Context, id int64) (*ListingDTO, error)
	List(ctx context.Context, filters ListFilters) ([]ListingDTO, error)
	Update(ctx context.Context, id int64, input UpdateListingInput) (*ListingDTO, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo  Repository
	users UserDirectory
}

// NewService builds a listings service with the required dependencies.
func NewService(repo Repository, users UserDirectory) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	return &service{repo: repo, users: users}, nil
}

func (s *service) Create(ctx context.Context, input CreateListingInput) (*ListingDTO, error) {
	if strings.TrimSpace(input.FishType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fish type required")
	}
	if input.WeightKg <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}
	if input.Price.IsNegative() || input.Price.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}

	status := enums.ListingStatusAvailable
	if input.Status != nil {
		parsed, err := enums.ParseListingStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid listing status %q", *input.Status)
		}
		status = parsed
	}

	fisherman, err := s.users.FindByID(ctx, input.FishermanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "user %s not found", input.FishermanID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fisherman")
	}
	if fisherman.Role != enums.UserRoleFisherman {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only fishermen can create listings")
	}

	listing := &models.FishListing{
		FishType:    strings.TrimSpace(input.FishType),
		WeightKg:    input.WeightKg,
		Price:       input.Price,
		PhotoURL:    input.PhotoURL,
		CatchDate:   input.CatchDate,
		Location:    input.Location,
		Status:      status,
		FishermanID: fisherman.ID,
	}
	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id int64) (*ListingDTO, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "fish listing %d not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return FromModel(listing), nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]ListingDTO, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}
	out := make([]ListingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateListingInput) (*ListingDTO, error) {
	updates := map[string]any{}
	if input.FishType != nil {
		updates["fish_type"] = *input.FishType
	}
	if input.WeightKg != nil {
		if *input.WeightKg <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
		}
		updates["weight_kg"] = *input.WeightKg
	}
	if input.Price != nil {
		if input.Price.IsNegative() || input.Price.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		updates["price"] = *input.Price
	}
	if input.PhotoURL != nil {
		updates["photo_url"] = *input.PhotoURL
	}
	if input.CatchDate != nil {
		updates["catch_date"] = *input.CatchDate
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Status != nil {
		parsed, err := enums.ParseListingStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid listing status %q", *input.Status)
		}
		updates["status"] = parsed
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "fish listing %d not found", id)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update listing")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "fish listing %d not found", id)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
	}
	return nil
}
