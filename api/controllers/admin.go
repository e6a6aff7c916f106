package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/api/responses"
	"github.com/mahrarshah/foodiehaven-backend/api/validators"
	orderssvc "github.com/mahrarshah/foodiehaven-backend/internal/orders"
	promossvc "github.com/mahrarshah/foodiehaven-backend/internal/promos"
	shopssvc "github.com/mahrarshah/foodiehaven-backend/internal/shops"
	statssvc "github.com/mahrarshah/foodiehaven-backend/internal/stats"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
)

// AdminOverview returns the platform dashboard counters.
func AdminOverview(svc statssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		overview, err := svc.AdminOverview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, overview)
	}
}

// AdminShopsList returns shops for moderation, optionally filtered
// by status.
func AdminShopsList(svc shopssvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var status *enums.ShopStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, parseErr := enums.ParseShopStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid shop status"))
				return
			}
			status = &parsed
		}

		shops, err := svc.ListShopsForAdmin(r.Context(), status, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newShopListResponse(shops))
	}
}

// AdminShopVerify approves a pending shop.
func AdminShopVerify(svc shopssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminModerationHandler(svc, logg, func(r *http.Request, svc shopssvc.Service, id uuid.UUID) (any, error) {
		shop, err := svc.VerifyShop(r.Context(), id)
		if err != nil {
			return nil, err
		}
		return newShopResponse(shop), nil
	})
}

// AdminShopSuspend suspends a shop and hides its storefront.
func AdminShopSuspend(svc shopssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminModerationHandler(svc, logg, func(r *http.Request, svc shopssvc.Service, id uuid.UUID) (any, error) {
		shop, err := svc.SuspendShop(r.Context(), id)
		if err != nil {
			return nil, err
		}
		return newShopResponse(shop), nil
	})
}

func adminModerationHandler(svc shopssvc.Service, logg *logger.Logger, action func(*http.Request, shopssvc.Service, uuid.UUID) (any, error)) http.HandlerFunc {
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

		result, err := action(r, svc, shopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminOrdersList returns recent orders across the whole platform.
func AdminOrdersList(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultOrderLimit, 1, maxOrderLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListAllOrders(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderListResponse(orders))
	}
}

// AdminOrderStatus overrides an order's status without shop scoping.
func AdminOrderStatus(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, status, nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// AdminPromosList returns platform-wide promo codes.
func AdminPromosList(svc promossvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promos service unavailable"))
			return
		}

		promos, err := svc.ListShopPromos(r.Context(), nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPromoListResponse(promos))
	}
}

// AdminPromoCreate registers a platform-wide promo code.
func AdminPromoCreate(svc promossvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promos service unavailable"))
			return
		}

		var body createPromoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.CreatePromo(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newPromoResponse(promo))
	}
}

// AdminPromoUpdate edits a promo code's terms.
func AdminPromoUpdate(svc promossvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promos service unavailable"))
			return
		}

		promoID, err := uuid.Parse(chi.URLParam(r, "promoID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promo id"))
			return
		}

		var body updatePromoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.UpdatePromo(r.Context(), promoID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPromoResponse(promo))
	}
}

// AdminPromoDelete retires a promo code.
func AdminPromoDelete(svc promossvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promos service unavailable"))
			return
		}

		promoID, err := uuid.Parse(chi.URLParam(r, "promoID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promo id"))
			return
		}

		if err := svc.DeletePromo(r.Context(), promoID, nil); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
