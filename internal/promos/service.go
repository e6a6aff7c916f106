package promos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/metrics"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// Application is the successful outcome of applying a code to a cart. At most
// one application exists per checkout session; a new Apply replaces it.
type Application struct {
	PromoID          uuid.UUID `json:"promo_id"`
	Code             string    `json:"code"`
	Discount         int       `json:"discount"`
	RelevantSubtotal int       `json:"relevant_subtotal"`
}

// ServiceParams groups dependencies for the promo service.
type ServiceParams struct {
	Repo    *Repository
	Metrics *metrics.CheckoutMetrics
	Now     func() time.Time
}

// Service exposes promo evaluation and catalog management.
type Service interface {
	Apply(ctx context.Context, code string, items []types.OrderItem) (Application, error)
	RecordUsage(ctx context.Context, promoID uuid.UUID) error
	CreatePromo(ctx context.Context, input CreatePromoInput) (*models.Promo, error)
	UpdatePromo(ctx context.Context, id uuid.UUID, input UpdatePromoInput) (*models.Promo, error)
	DeletePromo(ctx context.Context, id uuid.UUID, shopID *uuid.UUID) error
	ListShopPromos(ctx context.Context, shopID *uuid.UUID) ([]models.Promo, error)
}

type service struct {
	repo    *Repository
	metrics *metrics.CheckoutMetrics
	now     func() time.Time
}

// NewService builds a promo service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// NormalizeCode canonicalizes user input: trimmed, uppercase.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Apply evaluates a code against the cart and returns the winning discount.
// Records matching the code are checked oldest-first and the first eligible
// one wins, even if a later record would discount more. Usage is not recorded
// here; that happens after order placement via RecordUsage.
func (s *service) Apply(ctx context.Context, code string, items []types.OrderItem) (Application, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return Application{}, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if len(items) == 0 {
		return Application{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	records, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		return Application{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "querying promo catalog")
	}
	if len(records) == 0 {
		s.metrics.IncPromoOutcome("not_found")
		return Application{}, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
	}

	now := s.now()
	for _, record := range records {
		eval, evalErr := Evaluate(record, items, now)
		if evalErr != nil {
			continue
		}
		s.metrics.IncPromoOutcome("applied")
		return Application{
			PromoID:          eval.Promo.ID,
			Code:             normalized,
			Discount:         eval.Discount,
			RelevantSubtotal: eval.RelevantSubtotal,
		}, nil
	}

	s.metrics.IncPromoOutcome("not_applicable")
	return Application{}, pkgerrors.New(pkgerrors.CodeValidation, "promo code is not applicable to this cart")
}

// RecordUsage bumps the promo's usage counter. Called after the order is
// durably created; the caller treats failure as a logged side effect.
func (s *service) RecordUsage(ctx context.Context, promoID uuid.UUID) error {
	if promoID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "promo id is required")
	}
	if err := s.repo.IncrementUsage(ctx, promoID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "incrementing promo usage")
	}
	return nil
}

// CreatePromoInput carries the fields accepted when creating a promo.
type CreatePromoInput struct {
	Code        string
	Type        enums.PromoType
	Value       int
	ShopID      *uuid.UUID
	MinOrder    *int
	MaxDiscount *int
	Active      bool
	StartsAt    *time.Time
	EndsAt      *time.Time
	UsageLimit  *int
}

// UpdatePromoInput carries the mutable promo fields. Nil pointers leave the
// stored value untouched.
type UpdatePromoInput struct {
	Value       *int
	MinOrder    *int
	MaxDiscount *int
	Active      *bool
	StartsAt    *time.Time
	EndsAt      *time.Time
	UsageLimit  *int
}

// CreatePromo validates and inserts a new catalog record.
func (s *service) CreatePromo(ctx context.Context, input CreatePromoInput) (*models.Promo, error) {
	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid promo type")
	}
	if input.Value <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo value must be positive")
	}
	if input.Type == enums.PromoTypePercentage && input.Value > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage promos cannot exceed 100")
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo window ends before it starts")
	}

	promo := &models.Promo{
		ID:          uuid.New(),
		Code:        code,
		Type:        input.Type,
		Value:       input.Value,
		ShopID:      input.ShopID,
		MinOrder:    input.MinOrder,
		MaxDiscount: input.MaxDiscount,
		Active:      input.Active,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		UsageLimit:  input.UsageLimit,
	}

	created, err := s.repo.Create(ctx, promo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating promo")
	}
	return created, nil
}

// UpdatePromo applies partial updates to an existing promo.
func (s *service) UpdatePromo(ctx context.Context, id uuid.UUID, input UpdatePromoInput) (*models.Promo, error) {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promo not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading promo")
	}

	if input.Value != nil {
		if *input.Value <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo value must be positive")
		}
		if promo.Type == enums.PromoTypePercentage && *input.Value > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage promos cannot exceed 100")
		}
		promo.Value = *input.Value
	}
	if input.MinOrder != nil {
		promo.MinOrder = input.MinOrder
	}
	if input.MaxDiscount != nil {
		promo.MaxDiscount = input.MaxDiscount
	}
	if input.Active != nil {
		promo.Active = *input.Active
	}
	if input.StartsAt != nil {
		promo.StartsAt = input.StartsAt
	}
	if input.EndsAt != nil {
		promo.EndsAt = input.EndsAt
	}
	if input.UsageLimit != nil {
		promo.UsageLimit = input.UsageLimit
	}
	if promo.StartsAt != nil && promo.EndsAt != nil && promo.EndsAt.Before(*promo.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo window ends before it starts")
	}

	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating promo")
	}
	return promo, nil
}

// DeletePromo removes a promo. When shopID is set the promo must belong to
// that shop; vendors cannot delete platform or other shops' promos.
func (s *service) DeletePromo(ctx context.Context, id uuid.UUID, shopID *uuid.UUID) error {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "promo not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading promo")
	}

	if shopID != nil {
		if promo.ShopID == nil || *promo.ShopID != *shopID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "promo belongs to a different shop")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting promo")
	}
	return nil
}

// ListShopPromos lists a shop's promos, or the platform-wide ones for nil.
func (s *service) ListShopPromos(ctx context.Context, shopID *uuid.UUID) ([]models.Promo, error) {
	promos, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing promos")
	}
	return promos, nil
}
