package stats

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
)

// OrderSource loads the orders the aggregates run over.
type OrderSource interface {
	ListByShop(ctx context.Context, shopID uuid.UUID, limit int) ([]models.Order, error)
	ListAll(ctx context.Context, limit int) ([]models.Order, error)
}

// ShopSource loads the shop roster for the admin overview.
type ShopSource interface {
	ListAll(ctx context.Context, limit int) ([]models.Shop, error)
}

// dashboardWindow bounds how many orders the reductions load.
const dashboardWindow = 1000

// ServiceParams groups dependencies for the stats service.
type ServiceParams struct {
	Orders OrderSource
	Shops  ShopSource
	Now    func() time.Time
}

// Service serves dashboard aggregates.
type Service interface {
	VendorStats(ctx context.Context, shopID uuid.UUID) (VendorStats, error)
	AdminOverview(ctx context.Context) (AdminOverview, error)
}

type service struct {
	orders OrderSource
	shops  ShopSource
	now    func() time.Time
}

// NewService builds a stats service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order source is required")
	}
	if params.Shops == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop source is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{orders: params.Orders, shops: params.Shops, now: now}, nil
}

// VendorStats computes one shop's dashboard summary.
func (s *service) VendorStats(ctx context.Context, shopID uuid.UUID) (VendorStats, error) {
	orders, err := s.orders.ListByShop(ctx, shopID, dashboardWindow)
	if err != nil {
		return VendorStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shop orders")
	}
	return ComputeVendorStats(orders, shopID, s.now()), nil
}

// AdminOverview computes the platform summary.
func (s *service) AdminOverview(ctx context.Context) (AdminOverview, error) {
	orders, err := s.orders.ListAll(ctx, dashboardWindow)
	if err != nil {
		return AdminOverview{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading orders")
	}
	shops, err := s.shops.ListAll(ctx, dashboardWindow)
	if err != nil {
		return AdminOverview{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shops")
	}
	return ComputeAdminOverview(orders, shops, s.now()), nil
}
