package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
)

// ServiceParams groups dependencies for the notifications service. Sink
// may be nil when event publishing is disabled.
type ServiceParams struct {
	Repo   *Repository
	Sink   EventSink
	Logger *logger.Logger
	Now    func() time.Time
}

// Service maintains the vendor notification inbox and emits the
// matching domain events.
type Service interface {
	NotifyOrderPlaced(ctx context.Context, shopID uuid.UUID, order *models.Order) error
	NotifyShopVerified(ctx context.Context, shop *models.Shop) error
	NotifyShopSuspended(ctx context.Context, shop *models.Shop) error
	ListShopNotifications(ctx context.Context, shopID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, shopID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, shopID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, shopID uuid.UUID) (int64, error)
}

type service struct {
	repo   *Repository
	sink   EventSink
	logger *logger.Logger
	now    func() time.Time
}

// NewService builds a notifications service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifications repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:   params.Repo,
		sink:   params.Sink,
		logger: params.Logger,
		now:    now,
	}, nil
}

// NotifyOrderPlaced writes the shop's inbox entry for a new order and
// publishes the order.placed event. The inbox row is the authoritative
// part; event publishing is best-effort.
func (s *service) NotifyOrderPlaced(ctx context.Context, shopID uuid.UUID, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}

	itemCount := 0
	shopTotal := 0
	for _, item := range order.Items {
		if item.ShopID != shopID {
			continue
		}
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		itemCount += qty
		unit := item.UnitPrice
		for _, v := range item.Variations {
			if v.Price > 0 {
				unit += v.Price
			}
		}
		shopTotal += unit * qty
	}

	orderID := order.ID
	notification := &models.Notification{
		ID:      uuid.New(),
		ShopID:  shopID,
		Type:    enums.NotificationTypeOrderPlaced,
		Title:   "New order " + order.Reference(),
		Body:    fmt.Sprintf("%s ordered %d item(s) worth Rs. %d", order.CustomerName, itemCount, shopTotal),
		OrderID: &orderID,
	}
	if _, err := s.repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order notification")
	}

	s.publish(ctx, EventOrderPlaced, OrderPlacedEvent{
		EventID:      uuid.New(),
		OrderID:      order.ID,
		Reference:    order.Reference(),
		ShopID:       shopID,
		CustomerName: order.CustomerName,
		ItemCount:    itemCount,
		ShopTotal:    shopTotal,
		PlacedAt:     s.now(),
	})
	return nil
}

// NotifyShopVerified records the approval decision in the shop's inbox.
func (s *service) NotifyShopVerified(ctx context.Context, shop *models.Shop) error {
	return s.notifyModeration(ctx, shop, enums.NotificationTypeShopVerified, EventShopVerified,
		"Shop verified", "Your shop is live. Buyers can now find you and place orders.")
}

// NotifyShopSuspended records the suspension in the shop's inbox.
func (s *service) NotifyShopSuspended(ctx context.Context, shop *models.Shop) error {
	return s.notifyModeration(ctx, shop, enums.NotificationTypeShopSuspended, EventShopSuspended,
		"Shop suspended", "Your shop has been suspended and is hidden from buyers.")
}

// ListShopNotifications returns the vendor inbox, newest first.
func (s *service) ListShopNotifications(ctx context.Context, shopID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	notifications, err := s.repo.ListByShop(ctx, shopID, unreadOnly, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing notifications")
	}
	return notifications, nil
}

// CountUnread returns the vendor inbox badge count.
func (s *service) CountUnread(ctx context.Context, shopID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUnread(ctx, shopID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting unread notifications")
	}
	return count, nil
}

// MarkRead flags one notification as read.
func (s *service) MarkRead(ctx context.Context, shopID, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, shopID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking notification read")
	}
	return nil
}

// MarkAllRead clears the vendor's unread backlog.
func (s *service) MarkAllRead(ctx context.Context, shopID uuid.UUID) (int64, error) {
	count, err := s.repo.MarkAllRead(ctx, shopID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking notifications read")
	}
	return count, nil
}

func (s *service) notifyModeration(ctx context.Context, shop *models.Shop, notifType enums.NotificationType, eventType, title, body string) error {
	if shop == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop is required")
	}

	notification := &models.Notification{
		ID:     uuid.New(),
		ShopID: shop.ID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	}
	if _, err := s.repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating moderation notification")
	}

	var email string
	if shop.Email != nil {
		email = *shop.Email
	}
	s.publish(ctx, eventType, ShopModerationEvent{
		EventID:   uuid.New(),
		ShopID:    shop.ID,
		ShopName:  shop.Name,
		ShopEmail: email,
		Status:    string(shop.Status),
		DecidedAt: s.now(),
	})
	return nil
}

func (s *service) publish(ctx context.Context, eventType string, payload any) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, eventType, payload); err != nil {
		logCtx := s.logger.WithFields(ctx, map[string]any{"event_type": eventType})
		s.logger.Error(logCtx, "event publish failed", err)
	}
}
