package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/api/responses"
	"github.com/mahrarshah/foodiehaven-backend/api/validators"
	orderssvc "github.com/mahrarshah/foodiehaven-backend/internal/orders"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

const (
	defaultOrderLimit = 20
	maxOrderLimit     = 100
)

// OrdersList returns the buyer's order history, newest first.
func OrdersList(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultOrderLimit, 1, maxOrderLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListUserOrders(r.Context(), userID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderListResponse(orders))
	}
}

// OrderGet returns one of the buyer's orders.
func OrderGet(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrderCancel cancels a still-pending order on the buyer's behalf.
func OrderCancel(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.CancelOwnOrder(r.Context(), orderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type orderResponse struct {
	ID              uuid.UUID            `json:"id"`
	Reference       string               `json:"reference"`
	UserID          uuid.UUID            `json:"user_id"`
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	DeliveryAddress types.Address        `json:"delivery_address"`
	Items           types.OrderItems     `json:"items"`
	DeliveryTiming  enums.DeliveryTiming `json:"delivery_timing"`
	DeliverySlot    string               `json:"delivery_slot,omitempty"`
	PaymentMethod   enums.PaymentMethod  `json:"payment_method"`
	Subtotal        int                  `json:"subtotal"`
	DeliveryFee     int                  `json:"delivery_fee"`
	ServiceFee      int                  `json:"service_fee"`
	Discount        int                  `json:"discount"`
	Total           int                  `json:"total"`
	PromoCode       *string              `json:"promo_code,omitempty"`
	OrderNotes      string               `json:"order_notes,omitempty"`
	Status          enums.OrderStatus    `json:"status"`
	ShopIDs         []uuid.UUID          `json:"shop_ids"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	if order == nil {
		return orderResponse{}
	}
	items := order.Items
	if items == nil {
		items = types.OrderItems{}
	}
	shopIDs := []uuid.UUID(order.ShopIDs)
	if shopIDs == nil {
		shopIDs = []uuid.UUID{}
	}
	return orderResponse{
		ID:              order.ID,
		Reference:       order.Reference(),
		UserID:          order.UserID,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		DeliveryAddress: order.DeliveryAddress,
		Items:           items,
		DeliveryTiming:  order.DeliveryTiming,
		DeliverySlot:    order.DeliverySlot,
		PaymentMethod:   order.PaymentMethod,
		Subtotal:        order.Subtotal,
		DeliveryFee:     order.DeliveryFee,
		ServiceFee:      order.ServiceFee,
		Discount:        order.Discount,
		Total:           order.Total,
		PromoCode:       order.PromoCode,
		OrderNotes:      order.OrderNotes,
		Status:          order.Status,
		ShopIDs:         shopIDs,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func newOrderListResponse(orders []models.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = newOrderResponse(&orders[i])
	}
	return out
}
