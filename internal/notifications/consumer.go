package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
)

// ShopLookup resolves the shop a mail should go to.
type ShopLookup interface {
	GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)
}

// Consumer drains the orders subscription and turns domain events into
// vendor emails through the mail webhook.
type Consumer struct {
	subscription *pubsub.Subscriber
	shops        ShopLookup
	mailer       Mailer
	logg         *logger.Logger
}

// NewConsumer builds the mail dispatch consumer.
func NewConsumer(subscription *pubsub.Subscriber, shops ShopLookup, mailer Mailer, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, fmt.Errorf("orders subscription required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop lookup required")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: subscription,
		shops:        shops,
		mailer:       mailer,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes[AttrEventType]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	switch eventType {
	case EventOrderPlaced:
		return c.handleOrderPlaced(logCtx, msg.Data)
	case EventShopVerified, EventShopSuspended:
		return c.handleModeration(logCtx, eventType, msg.Data)
	default:
		c.logg.Info(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}
}

func (c *Consumer) handleOrderPlaced(ctx context.Context, data []byte) processResult {
	var event OrderPlacedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.logg.Error(ctx, "failed to decode order event", err)
		return processResult{ack: true}
	}

	ctx = c.logg.WithShopID(ctx, event.ShopID.String())
	shop, err := c.shops.GetShop(ctx, event.ShopID)
	if err != nil {
		c.logg.Error(ctx, "shop lookup failed", err)
		return processResult{nack: true}
	}
	if shop.Email == nil || *shop.Email == "" {
		c.logg.Info(ctx, "shop has no email, skipping mail")
		return processResult{ack: true}
	}

	subject := "New order " + event.Reference
	body := fmt.Sprintf(
		"%s placed order %s with %d item(s) from %s. Shop total: Rs. %d.",
		event.CustomerName, event.Reference, event.ItemCount, shop.Name, event.ShopTotal,
	)
	if err := c.mailer.Send(ctx, *shop.Email, subject, body); err != nil {
		c.logg.Error(ctx, "order mail dispatch failed", err)
		return processResult{nack: true}
	}

	c.logg.Info(ctx, "order mail dispatched")
	return processResult{ack: true}
}

func (c *Consumer) handleModeration(ctx context.Context, eventType string, data []byte) processResult {
	var event ShopModerationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.logg.Error(ctx, "failed to decode moderation event", err)
		return processResult{ack: true}
	}
	if event.ShopEmail == "" {
		c.logg.Info(ctx, "moderation event has no email, skipping mail")
		return processResult{ack: true}
	}

	subject := "Your shop has been suspended"
	body := fmt.Sprintf("%s has been suspended on Foodie Haven. Contact support for details.", event.ShopName)
	if eventType == EventShopVerified {
		subject = "Your shop is live"
		body = fmt.Sprintf("%s is verified and visible to buyers on Foodie Haven.", event.ShopName)
	}

	if err := c.mailer.Send(ctx, event.ShopEmail, subject, body); err != nil {
		c.logg.Error(c.logg.WithShopID(ctx, event.ShopID.String()), "moderation mail dispatch failed", err)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}
