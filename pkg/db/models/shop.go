package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// Shop represents a vendor storefront.
type Shop struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID        `gorm:"column:owner_id;type:uuid;not null"`
	Name        string           `gorm:"column:name;not null"`
	Description *string          `gorm:"column:description"`
	Phone       *string          `gorm:"column:phone"`
	Email       *string          `gorm:"column:email"`
	Status      enums.ShopStatus `gorm:"column:status;type:text;not null;default:'pending_approval'"`
	Categories  pq.StringArray   `gorm:"column:categories;type:text[]"`
	Address     *types.Address   `gorm:"column:address;type:jsonb;serializer:json"`
	LogoURL     *string          `gorm:"column:logo_url"`
	BannerURL   *string          `gorm:"column:banner_url"`
	Rating      float64          `gorm:"column:rating;not null;default:0"`
	ReviewCount int              `gorm:"column:review_count;not null;default:0"`
	TotalOrders int              `gorm:"column:total_orders;not null;default:0"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
