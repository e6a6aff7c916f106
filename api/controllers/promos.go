package controllers

import (
	"time"

	"github.com/google/uuid"

	promossvc "github.com/mahrarshah/foodiehaven-backend/internal/promos"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
)

type createPromoRequest struct {
	Code        string     `json:"code" validate:"required"`
	Type        string     `json:"type" validate:"required,oneof=percentage fixed"`
	Value       int        `json:"value"`
	MinOrder    *int       `json:"min_order"`
	MaxDiscount *int       `json:"max_discount"`
	Active      *bool      `json:"active"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	UsageLimit  *int       `json:"usage_limit"`
}

type updatePromoRequest struct {
	Value       *int       `json:"value"`
	MinOrder    *int       `json:"min_order"`
	MaxDiscount *int       `json:"max_discount"`
	Active      *bool      `json:"active"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	UsageLimit  *int       `json:"usage_limit"`
}

func (r createPromoRequest) toInput() (promossvc.CreatePromoInput, error) {
	promoType, err := enums.ParsePromoType(r.Type)
	if err != nil {
		return promossvc.CreatePromoInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promo type")
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return promossvc.CreatePromoInput{
		Code:        r.Code,
		Type:        promoType,
		Value:       r.Value,
		MinOrder:    r.MinOrder,
		MaxDiscount: r.MaxDiscount,
		Active:      active,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		UsageLimit:  r.UsageLimit,
	}, nil
}

func (r updatePromoRequest) toInput() promossvc.UpdatePromoInput {
	return promossvc.UpdatePromoInput{
		Value:       r.Value,
		MinOrder:    r.MinOrder,
		MaxDiscount: r.MaxDiscount,
		Active:      r.Active,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		UsageLimit:  r.UsageLimit,
	}
}

type promoResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Type        enums.PromoType `json:"type"`
	Value       int             `json:"value"`
	ShopID      *uuid.UUID      `json:"shop_id,omitempty"`
	MinOrder    *int            `json:"min_order,omitempty"`
	MaxDiscount *int            `json:"max_discount,omitempty"`
	Active      bool            `json:"active"`
	StartsAt    *time.Time      `json:"starts_at,omitempty"`
	EndsAt      *time.Time      `json:"ends_at,omitempty"`
	UsageLimit  *int            `json:"usage_limit,omitempty"`
	UsedCount   int             `json:"used_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newPromoResponse(promo *models.Promo) promoResponse {
	if promo == nil {
		return promoResponse{}
	}
	return promoResponse{
		ID:          promo.ID,
		Code:        promo.Code,
		Type:        promo.Type,
		Value:       promo.Value,
		ShopID:      promo.ShopID,
		MinOrder:    promo.MinOrder,
		MaxDiscount: promo.MaxDiscount,
		Active:      promo.Active,
		StartsAt:    promo.StartsAt,
		EndsAt:      promo.EndsAt,
		UsageLimit:  promo.UsageLimit,
		UsedCount:   promo.UsedCount,
		CreatedAt:   promo.CreatedAt,
		UpdatedAt:   promo.UpdatedAt,
	}
}

func newPromoListResponse(promos []models.Promo) []promoResponse {
	out := make([]promoResponse, len(promos))
	for i := range promos {
		out[i] = newPromoResponse(&promos[i])
	}
	return out
}
