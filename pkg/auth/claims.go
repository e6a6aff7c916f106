package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Role     enums.UserRole
	ShopID   *uuid.UUID
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	Email    string         `json:"email"`
	FullName string         `json:"full_name,omitempty"`
	Role     enums.UserRole `json:"role"`
	ShopID   *uuid.UUID     `json:"shop_id,omitempty"`
	jwt.RegisteredClaims
}
