package shops

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// ModerationNotifier tells a shop about moderation decisions. Notification
// failures never fail the decision itself.
type ModerationNotifier interface {
	NotifyShopVerified(ctx context.Context, shop *models.Shop) error
	NotifyShopSuspended(ctx context.Context, shop *models.Shop) error
}

// CreateShopInput carries the vendor's shop registration.
type CreateShopInput struct {
	Name        string
	Description *string
	Phone       *string
	Email       *string
	Categories  []string
	Address     *types.Address
}

// UpdateShopInput carries partial profile edits. Nil pointers leave the
// stored value untouched.
type UpdateShopInput struct {
	Name        *string
	Description *string
	Phone       *string
	Email       *string
	Categories  []string
	Address     *types.Address
	LogoURL     *string
	BannerURL   *string
}

// ServiceParams groups dependencies for the shops service.
type ServiceParams struct {
	Repo     *Repository
	Cache    *Cache
	Notifier ModerationNotifier
	Logger   *logger.Logger
}

// Service exposes shop lookup, vendor profile management and admin
// moderation.
type Service interface {
	GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	ListVerifiedShops(ctx context.Context, limit int) ([]models.Shop, error)
	GetOwnShop(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error)
	CreateShop(ctx context.Context, ownerID uuid.UUID, input CreateShopInput) (*models.Shop, error)
	UpdateShop(ctx context.Context, ownerID uuid.UUID, input UpdateShopInput) (*models.Shop, error)
	ListShopsForAdmin(ctx context.Context, status *enums.ShopStatus, limit int) ([]models.Shop, error)
	VerifyShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	SuspendShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	IncrementTotalOrders(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	cache    *Cache
	notifier ModerationNotifier
	logger   *logger.Logger
}

// NewService builds a shops service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shops repo is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "moderation notifier is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:     params.Repo,
		cache:    params.Cache,
		notifier: params.Notifier,
		logger:   params.Logger,
	}, nil
}

// GetShop loads a shop through the read cache.
func (s *service) GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	if cached := s.cache.Get(ctx, id); cached != nil {
		return cached, nil
	}

	shop, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, shop)
	return shop, nil
}

// ListVerifiedShops lists the shops buyers can browse.
func (s *service) ListVerifiedShops(ctx context.Context, limit int) ([]models.Shop, error) {
	shops, err := s.repo.ListByStatus(ctx, enums.ShopStatusVerified, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing shops")
	}
	return shops, nil
}

// GetOwnShop loads the vendor's shop by owner.
func (s *service) GetOwnShop(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	shop, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shop")
	}
	return shop, nil
}

// CreateShop registers a vendor's shop. New shops start in pending approval
// and stay invisible to buyers until an admin verifies them.
func (s *service) CreateShop(ctx context.Context, ownerID uuid.UUID, input CreateShopInput) (*models.Shop, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	if _, err := s.repo.FindByOwner(ctx, ownerID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "owner already has a shop")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing shop")
	}

	shop := &models.Shop{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Phone:       input.Phone,
		Email:       input.Email,
		Status:      enums.ShopStatusPendingApproval,
		Categories:  pq.StringArray(input.Categories),
		Address:     input.Address,
	}

	created, err := s.repo.Create(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating shop")
	}
	return created, nil
}

// UpdateShop applies partial profile edits to the vendor's own shop.
func (s *service) UpdateShop(ctx context.Context, ownerID uuid.UUID, input UpdateShopInput) (*models.Shop, error) {
	shop, err := s.GetOwnShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name cannot be empty")
		}
		shop.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		shop.Description = input.Description
	}
	if input.Phone != nil {
		shop.Phone = input.Phone
	}
	if input.Email != nil {
		shop.Email = input.Email
	}
	if input.Categories != nil {
		shop.Categories = pq.StringArray(input.Categories)
	}
	if input.Address != nil {
		shop.Address = input.Address
	}
	if input.LogoURL != nil {
		shop.LogoURL = input.LogoURL
	}
	if input.BannerURL != nil {
		shop.BannerURL = input.BannerURL
	}

	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating shop")
	}
	s.cache.Invalidate(ctx, shop.ID)
	return shop, nil
}

// ListShopsForAdmin lists shops, optionally filtered by moderation status.
func (s *service) ListShopsForAdmin(ctx context.Context, status *enums.ShopStatus, limit int) ([]models.Shop, error) {
	var (
		shops []models.Shop
		err   error
	)
	if status != nil {
		shops, err = s.repo.ListByStatus(ctx, *status, limit)
	} else {
		shops, err = s.repo.ListAll(ctx, limit)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing shops")
	}
	return shops, nil
}

// VerifyShop approves a pending shop and notifies its owner.
func (s *service) VerifyShop(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	return s.moderate(ctx, id, enums.ShopStatusVerified)
}

// SuspendShop takes a shop off the platform and notifies its owner.
func (s *service) SuspendShop(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	return s.moderate(ctx, id, enums.ShopStatusSuspended)
}

func (s *service) moderate(ctx context.Context, id uuid.UUID, status enums.ShopStatus) (*models.Shop, error) {
	shop, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop.Status == status {
		return shop, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating shop status")
	}
	shop.Status = status
	s.cache.Invalidate(ctx, id)

	// Best-effort: a failed notification does not undo the decision.
	var notifyErr error
	switch status {
	case enums.ShopStatusVerified:
		notifyErr = s.notifier.NotifyShopVerified(ctx, shop)
	case enums.ShopStatusSuspended:
		notifyErr = s.notifier.NotifyShopSuspended(ctx, shop)
	}
	if notifyErr != nil {
		s.logger.Error(s.logger.WithShopID(ctx, shop.ID.String()), "shop moderation notification failed", notifyErr)
	}

	return shop, nil
}

// IncrementTotalOrders bumps the shop's order tally. Used by checkout
// fan-out; the caller treats failure as a logged side effect.
func (s *service) IncrementTotalOrders(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.IncrementTotalOrders(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "incrementing shop order counter")
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shop")
	}
	return shop, nil
}
