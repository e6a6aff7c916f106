package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
)

// Promo is one discount-code catalog record. Multiple records may share a
// retired code; lookups return every record matching the code in catalog
// order.
type Promo struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string          `gorm:"column:code;not null;index"`
	Type        enums.PromoType `gorm:"column:type;type:text;not null"`
	Value       int             `gorm:"column:value;not null"`
	ShopID      *uuid.UUID      `gorm:"column:shop_id;type:uuid"`
	MinOrder    *int            `gorm:"column:min_order"`
	MaxDiscount *int            `gorm:"column:max_discount"`
	Active      bool            `gorm:"column:active;not null;default:true"`
	StartsAt    *time.Time      `gorm:"column:starts_at"`
	EndsAt      *time.Time      `gorm:"column:ends_at"`
	UsageLimit  *int            `gorm:"column:usage_limit"`
	UsedCount   int             `gorm:"column:used_count;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
