package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/api/responses"
	"github.com/mahrarshah/foodiehaven-backend/api/validators"
	shopssvc "github.com/mahrarshah/foodiehaven-backend/internal/shops"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

const (
	defaultShopLimit = 50
	maxShopLimit     = 200
)

// ShopsList returns verified shops for the storefront.
func ShopsList(svc shopssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shops service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultShopLimit, 1, maxShopLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shops, err := svc.ListVerifiedShops(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newShopListResponse(shops))
	}
}

// ShopGet returns one shop by id.
func ShopGet(svc shopssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shops service unavailable"))
			return
		}

		shopID, err := uuid.Parse(chi.URLParam(r, "shopID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop id"))
			return
		}

		shop, err := svc.GetShop(r.Context(), shopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newShopResponse(shop))
	}
}

type shopResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Email       *string          `json:"email,omitempty"`
	Status      enums.ShopStatus `json:"status"`
	Categories  []string         `json:"categories"`
	Address     *types.Address   `json:"address,omitempty"`
	LogoURL     *string          `json:"logo_url,omitempty"`
	BannerURL   *string          `json:"banner_url,omitempty"`
	Rating      float64          `json:"rating"`
	ReviewCount int              `json:"review_count"`
	TotalOrders int              `json:"total_orders"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func newShopResponse(shop *models.Shop) shopResponse {
	if shop == nil {
		return shopResponse{}
	}
	categories := []string(shop.Categories)
	if categories == nil {
		categories = []string{}
	}
	return shopResponse{
		ID:          shop.ID,
		Name:        shop.Name,
		Description: shop.Description,
		Phone:       shop.Phone,
		Email:       shop.Email,
		Status:      shop.Status,
		Categories:  categories,
		Address:     shop.Address,
		LogoURL:     shop.LogoURL,
		BannerURL:   shop.BannerURL,
		Rating:      shop.Rating,
		ReviewCount: shop.ReviewCount,
		TotalOrders: shop.TotalOrders,
		CreatedAt:   shop.CreatedAt,
		UpdatedAt:   shop.UpdatedAt,
	}
}

func newShopListResponse(shops []models.Shop) []shopResponse {
	out := make([]shopResponse, len(shops))
	for i := range shops {
		out[i] = newShopResponse(&shops[i])
	}
	return out
}
