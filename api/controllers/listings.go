package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/oceanharvest/fishmarket-backend/api/responses"
	"github.com/oceanharvest/fishmarket-backend/api/validators"
	"github.com/oceanharvest/fishmarket-backend/internal/listings"
	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
	pkgerrors "github.com/oceanharvest/fishmarket-backend/pkg/errors"
	"github.com/oceanharvest/fishmarket-backend/pkg/logger"
)

type createListingRequest struct {
	FishType    string          `json:"fish_type" validate:"required,max=120"`
	WeightKg    float64         `json:"weight_kg" validate:"required,gt=0"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	PhotoURL    *string         `json:"photo_url,omitempty"`
	CatchDate   *time.Time      `json:"catch_date,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Status      *string         `json:"status,omitempty"`
	FishermanID string          `json:"fisherman_id" validate:"required"`
}

type updateListingRequest struct {
	FishType  *string          `json:"fish_type,omitempty" validate:"omitempty,max=120"`
	WeightKg  *float64         `json:"weight_kg,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	PhotoURL  *string          `json:"photo_url,omitempty"`
	CatchDate *time.Time       `json:"catch_date,omitempty"`
	Location  *string          `json:"location,omitempty"`
	Status    *string          `json:"status,omitempty"`
}

// ListingCreate posts a new catch for sale on behalf of a fisherman.
func ListingCreate(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		var body createListingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Create(r.Context(), listings.CreateListingInput{
			FishType:    body.FishType,
			WeightKg:    body.WeightKg,
			Price:       body.Price,
			PhotoURL:    body.PhotoURL,
			CatchDate:   body.CatchDate,
			Location:    body.Location,
			Status:      body.Status,
			FishermanID: body.FishermanID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

func ListingGet(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt64(chi.URLParam(r, "listingId"), "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// ListingList returns listings, optionally narrowed by status or fisherman.
func ListingList(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := listings.ListFilters{
			FishermanID: strings.TrimSpace(r.URL.Query().Get("fisherman_id")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseListingStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Newf(pkgerrors.CodeValidation, "invalid listing status %q", raw))
				return
			}
			filters.Status = &status
		}

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ListingUpdate(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt64(chi.URLParam(r, "listingId"), "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateListingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Update(r.Context(), id, listings.UpdateListingInput{
			FishType:  body.FishType,
			WeightKg:  body.WeightKg,
			Price:     body.Price,
			PhotoURL:  body.PhotoURL,
			CatchDate: body.CatchDate,
			Location:  body.Location,
			Status:    body.Status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

func ListingDelete(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt64(chi.URLParam(r, "listingId"), "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"deleted": id})
	}
}
