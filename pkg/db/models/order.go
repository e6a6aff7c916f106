package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/mahrarshah/foodiehaven-backend/pkg/db/types"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// Order is the immutable order document written at checkout. Items, totals
// and the address snapshot never change after creation; only Status (and the
// bookkeeping UpdatedAt) is mutated by vendor/admin workflows.
type Order struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	UserEmail       string               `gorm:"column:user_email;not null"`
	UserName        string               `gorm:"column:user_name;not null"`
	CustomerName    string               `gorm:"column:customer_name;not null"`
	CustomerPhone   string               `gorm:"column:customer_phone;not null"`
	DeliveryAddress types.Address        `gorm:"column:delivery_address;type:jsonb;serializer:json"`
	Items           types.OrderItems     `gorm:"column:items;type:jsonb;serializer:json"`
	DeliveryTiming  enums.DeliveryTiming `gorm:"column:delivery_timing;type:text;not null"`
	DeliverySlot    string               `gorm:"column:delivery_slot;not null;default:''"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;type:text;not null;default:'cod'"`
	Subtotal        int                  `gorm:"column:subtotal;not null"`
	DeliveryFee     int                  `gorm:"column:delivery_fee;not null"`
	ServiceFee      int                  `gorm:"column:service_fee;not null"`
	Discount        int                  `gorm:"column:discount;not null;default:0"`
	Total           int                  `gorm:"column:total;not null"`
	PromoCode       *string              `gorm:"column:promo_code"`
	OrderNotes      string               `gorm:"column:order_notes;not null;default:''"`
	Status          enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	ShopIDs         dbtypes.UUIDArray    `gorm:"type:uuid[];column:shop_ids;not null;default:ARRAY[]::uuid[]"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// Reference renders the buyer-facing order reference shown after placement.
func (o Order) Reference() string {
	id := o.ID.String()
	suffix := id
	if len(id) > 6 {
		suffix = id[len(id)-6:]
	}
	return "ORD-" + o.CreatedAt.Format("2006") + "-" + suffix
}
