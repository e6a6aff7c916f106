package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/internal/pricing"
	"github.com/mahrarshah/foodiehaven-backend/internal/promos"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// ProductCatalog is the read path into the product catalog the cart needs.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ShopDirectory resolves shop records for line item snapshots.
type ShopDirectory interface {
	GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)
}

// PromoEvaluator evaluates a code against the current cart contents.
type PromoEvaluator interface {
	Apply(ctx context.Context, code string, items []types.OrderItem) (promos.Application, error)
}

// View is the cart plus its current price breakdown.
type View struct {
	Items        types.OrderItems `json:"items"`
	AppliedPromo *AppliedPromo    `json:"applied_promo,omitempty"`
	Quote        pricing.Quote    `json:"quote"`
}

// AddItemInput identifies the product and selection being added.
type AddItemInput struct {
	ProductID  uuid.UUID
	Quantity   int
	Variations []string
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store    *Store
	Products ProductCatalog
	Shops    ShopDirectory
	Promos   PromoEvaluator
	Fees     pricing.FeeSchedule
}

// Service exposes cart mutation and retrieval.
type Service interface {
	GetCart(ctx context.Context, sessionID string, timing enums.DeliveryTiming) (View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (View, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (View, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (View, error)
	ApplyPromo(ctx context.Context, sessionID string, code string) (View, error)
	RemovePromo(ctx context.Context, sessionID string) (View, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store    *Store
	products ProductCatalog
	shops    ShopDirectory
	promos   PromoEvaluator
	fees     pricing.FeeSchedule
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product catalog is required")
	}
	if params.Shops == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop directory is required")
	}
	if params.Promos == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo evaluator is required")
	}
	return &service{
		store:    params.Store,
		products: params.Products,
		shops:    params.Shops,
		promos:   params.Promos,
		fees:     params.Fees,
	}, nil
}

// GetCart loads the cart and prices it for the given delivery timing.
func (s *service) GetCart(ctx context.Context, sessionID string, timing enums.DeliveryTiming) (View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, sessionID, cart, timing)
}

// AddItem snapshots the product into the cart. Adding the same product with
// the same variation selection merges into the existing line.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (View, error) {
	if input.Quantity <= 0 {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if err := ensureUniqueNames(input.Variations); err != nil {
		return View{}, err
	}

	product, err := s.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !product.IsAvailable {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	selected, err := resolveVariations(product, input.Variations)
	if err != nil {
		return View{}, err
	}

	shop, err := s.shops.GetShop(ctx, product.ShopID)
	if err != nil {
		return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	var image *string
	if len(product.Images) > 0 {
		image = &product.Images[0]
	}

	line := types.OrderItem{
		ProductID:  product.ID,
		Name:       product.Name,
		UnitPrice:  product.EffectivePrice(),
		Quantity:   input.Quantity,
		Variations: selected,
		ShopID:     product.ShopID,
		ShopName:   shop.Name,
		Image:      image,
	}

	if idx := cart.findLine(line.ProductID); idx >= 0 {
		// Re-adding a product bumps its quantity; the new variation
		// selection replaces the old one.
		cart.Items[idx].Quantity += input.Quantity
		cart.Items[idx].Variations = selected
	} else {
		cart.Items = append(cart.Items, line)
	}

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return View{}, err
	}
	return s.view(ctx, sessionID, cart, enums.DeliveryTimingASAP)
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	idx := cart.findLine(productID)
	if idx < 0 {
		return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return View{}, err
	}
	return s.view(ctx, sessionID, cart, enums.DeliveryTimingASAP)
}

// RemoveItem drops a line from the cart.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (View, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, 0)
}

// ApplyPromo evaluates the code against the cart and attaches it, replacing
// any previously applied promo.
func (s *service) ApplyPromo(ctx context.Context, sessionID string, code string) (View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if cart.IsEmpty() {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	app, err := s.promos.Apply(ctx, code, cart.Items)
	if err != nil {
		return View{}, err
	}

	cart.AppliedPromo = &AppliedPromo{
		PromoID:  app.PromoID,
		Code:     app.Code,
		Discount: app.Discount,
	}

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return View{}, err
	}
	return s.view(ctx, sessionID, cart, enums.DeliveryTimingASAP)
}

// RemovePromo detaches the applied promo, if any.
func (s *service) RemovePromo(ctx context.Context, sessionID string) (View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	cart.AppliedPromo = nil
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return View{}, err
	}
	return s.view(ctx, sessionID, cart, enums.DeliveryTimingASAP)
}

// Clear removes the session's cart.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// view prices the cart, re-validating any applied promo against the current
// contents. A promo that no longer applies is silently dropped rather than
// surfaced as an error: the buyer changed the cart out from under it.
func (s *service) view(ctx context.Context, sessionID string, cart *Cart, timing enums.DeliveryTiming) (View, error) {
	discount := 0
	if cart.AppliedPromo != nil {
		app, err := s.promos.Apply(ctx, cart.AppliedPromo.Code, cart.Items)
		if err != nil {
			cart.AppliedPromo = nil
			if saveErr := s.store.Save(ctx, sessionID, cart); saveErr != nil {
				return View{}, saveErr
			}
		} else {
			cart.AppliedPromo.PromoID = app.PromoID
			cart.AppliedPromo.Discount = app.Discount
			discount = app.Discount
		}
	}

	return View{
		Items:        cart.Items,
		AppliedPromo: cart.AppliedPromo,
		Quote:        s.fees.Compute(cart.Items, timing, discount),
	}, nil
}

func ensureUniqueNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variation name cannot be empty")
		}
		if _, ok := seen[lower]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate variation selection")
		}
		seen[lower] = struct{}{}
	}
	return nil
}

func resolveVariations(product *models.Product, names []string) (types.Variations, error) {
	if len(names) == 0 {
		return nil, nil
	}

	offered := make(map[string]types.Variation, len(product.Variations))
	for _, v := range product.Variations {
		offered[strings.ToLower(v.Name)] = v
	}

	selected := make(types.Variations, 0, len(names))
	for _, name := range names {
		v, ok := offered[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown variation "+name)
		}
		selected = append(selected, v)
	}
	return selected, nil
}
