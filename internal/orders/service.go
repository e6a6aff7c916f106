package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
)

// statusTransitions is the allowed order lifecycle. Completed and cancelled
// are terminal.
var statusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:   {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed: {enums.OrderStatusPreparing, enums.OrderStatusCancelled},
	enums.OrderStatusPreparing: {enums.OrderStatusDelivered},
	enums.OrderStatusDelivered: {enums.OrderStatusCompleted},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes order retrieval and lifecycle management.
type Service interface {
	GetOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error)
	ListShopOrders(ctx context.Context, shopID uuid.UUID, limit int) ([]models.Order, error)
	ListAllOrders(ctx context.Context, limit int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, shopID *uuid.UUID) (*models.Order, error)
	CancelOwnOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo *Repository
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// GetOrder loads an order the buyer owns.
func (s *service) GetOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to a different user")
	}
	return order, nil
}

// ListUserOrders returns the buyer's order history, newest first.
func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing user orders")
	}
	return orders, nil
}

// ListShopOrders returns the orders touching a vendor's shop.
func (s *service) ListShopOrders(ctx context.Context, shopID uuid.UUID, limit int) ([]models.Order, error) {
	orders, err := s.repo.ListByShop(ctx, shopID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing shop orders")
	}
	return orders, nil
}

// ListAllOrders returns recent platform orders for admin views.
func (s *service) ListAllOrders(ctx context.Context, limit int) ([]models.Order, error) {
	orders, err := s.repo.ListAll(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}

// UpdateStatus moves an order along its lifecycle. When shopID is set the
// order must touch that shop; admins pass nil and may update any order.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, shopID *uuid.UUID) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if shopID != nil && !order.ShopIDs.Contains(*shopID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not touch this shop")
	}
	if !CanTransition(order.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order cannot move from "+order.Status.String()+" to "+status.String())
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	order.Status = status
	return order, nil
}

// CancelOwnOrder lets a buyer cancel an order that has not started preparing.
func (s *service) CancelOwnOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, enums.OrderStatusCancelled) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order can no longer be cancelled")
	}
	if err := s.repo.UpdateStatus(ctx, id, enums.OrderStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
	}
	order.Status = enums.OrderStatusCancelled
	return order, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}
