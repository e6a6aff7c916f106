package checkout

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/internal/pricing"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	dbtypes "github.com/mahrarshah/foodiehaven-backend/pkg/db/types"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// Buyer identifies the authenticated customer placing the order.
type Buyer struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

// AssembleInput carries everything the assembler needs to build an order.
// The item list must be a snapshot taken before fan-out begins; concurrent
// cart edits in another tab must not alter an order mid-placement.
type AssembleInput struct {
	Buyer         Buyer
	Items         types.OrderItems
	Address       types.Address
	CustomerName  string
	CustomerPhone string
	Timing        enums.DeliveryTiming
	Slot          string
	Notes         string
	PromoCode     *string
	Quote         pricing.Quote
	AgreedToTerms bool
}

// Assemble builds the immutable order record. All checks here are
// preconditions: they fail before anything touches the database.
func Assemble(input AssembleInput) (*models.Order, error) {
	if input.Buyer.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "buyer identity is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "cart is empty")
	}
	if err := input.Address.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePrecondition, err, "delivery address is incomplete")
	}
	if !input.AgreedToTerms {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "terms of service must be accepted")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "customer phone is required")
	}
	if !input.Timing.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "invalid delivery timing")
	}
	if input.Timing == enums.DeliveryTimingScheduled && strings.TrimSpace(input.Slot) == "" {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "scheduled delivery requires a slot")
	}

	// Copy items and address by value; later edits to the source cart or
	// the buyer's saved addresses must never alter this order.
	items := make(types.OrderItems, len(input.Items))
	copy(items, input.Items)

	return &models.Order{
		ID:              uuid.New(),
		UserID:          input.Buyer.ID,
		UserEmail:       input.Buyer.Email,
		UserName:        input.Buyer.FullName,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		DeliveryAddress: input.Address,
		Items:           items,
		DeliveryTiming:  input.Timing,
		DeliverySlot:    strings.TrimSpace(input.Slot),
		PaymentMethod:   enums.PaymentMethodCOD,
		Subtotal:        input.Quote.Subtotal,
		DeliveryFee:     input.Quote.DeliveryFee,
		ServiceFee:      input.Quote.ServiceFee,
		Discount:        input.Quote.Discount,
		Total:           input.Quote.Total,
		PromoCode:       input.PromoCode,
		OrderNotes:      strings.TrimSpace(input.Notes),
		Status:          enums.OrderStatusPending,
		ShopIDs:         dbtypes.UUIDArray(pricing.ShopIDs(items)),
	}, nil
}
