package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/mahrarshah/foodiehaven-backend/pkg/db/types"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string            `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string            `gorm:"column:password_hash;not null"`
	FullName     string            `gorm:"column:full_name;not null"`
	Phone        *string           `gorm:"column:phone"`
	Role         enums.UserRole    `gorm:"column:role;type:text;not null;default:'customer'"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true"`
	Addresses    types.AddressList `gorm:"column:addresses;type:jsonb;serializer:json"`
	RecentOrders dbtypes.UUIDArray `gorm:"type:uuid[];column:recent_orders;not null;default:ARRAY[]::uuid[]"`
	LastLoginAt  *time.Time        `gorm:"column:last_login_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
