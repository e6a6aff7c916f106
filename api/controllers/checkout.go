package controllers

import (
	"net/http"
	"strings"

	"github.com/mahrarshah/foodiehaven-backend/api/middleware"
	"github.com/mahrarshah/foodiehaven-backend/api/responses"
	"github.com/mahrarshah/foodiehaven-backend/api/validators"
	checkoutsvc "github.com/mahrarshah/foodiehaven-backend/internal/checkout"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// Checkout places the order assembled from the buyer's cart.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		timing := enums.DeliveryTimingASAP
		if body.Timing != "" {
			parsed, parseErr := enums.ParseDeliveryTiming(body.Timing)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid delivery timing"))
				return
			}
			timing = parsed
		}

		sessionID := strings.TrimSpace(r.Header.Get(cartSessionHeader))
		if sessionID == "" {
			sessionID = userID.String()
		}

		result, err := svc.PlaceOrder(r.Context(), checkoutsvc.PlaceOrderInput{
			SessionID: sessionID,
			Buyer: checkoutsvc.Buyer{
				ID:       userID,
				Email:    middleware.EmailFromContext(r.Context()),
				FullName: middleware.FullNameFromContext(r.Context()),
			},
			Address:       body.Address,
			CustomerName:  body.CustomerName,
			CustomerPhone: body.CustomerPhone,
			Timing:        timing,
			Slot:          body.Slot,
			Notes:         body.Notes,
			AgreedToTerms: body.AgreedToTerms,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type checkoutRequest struct {
	Address       types.Address `json:"address" validate:"required"`
	CustomerName  string        `json:"customer_name" validate:"required"`
	CustomerPhone string        `json:"customer_phone" validate:"required"`
	Timing        string        `json:"timing" validate:"omitempty,oneof=asap scheduled"`
	Slot          string        `json:"slot"`
	Notes         string        `json:"notes"`
	AgreedToTerms bool          `json:"agreed_to_terms"`
}
