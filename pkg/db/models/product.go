package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// Product is a menu item offered by one shop.
type Product struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID        uuid.UUID        `gorm:"column:shop_id;type:uuid;not null;index"`
	Name          string           `gorm:"column:name;not null"`
	Description   *string          `gorm:"column:description"`
	Category      string           `gorm:"column:category;not null;default:''"`
	Price         int              `gorm:"column:price;not null"`
	DiscountPrice *int             `gorm:"column:discount_price"`
	Images        pq.StringArray   `gorm:"column:images;type:text[]"`
	Variations    types.Variations `gorm:"column:variations;type:jsonb;serializer:json"`
	IsAvailable   bool             `gorm:"column:is_available;not null;default:true"`
	Rating        float64          `gorm:"column:rating;not null;default:0"`
	ReviewCount   int              `gorm:"column:review_count;not null;default:0"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the discounted unit price when one is set.
func (p Product) EffectivePrice() int {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 && *p.DiscountPrice < p.Price {
		return *p.DiscountPrice
	}
	return p.Price
}
