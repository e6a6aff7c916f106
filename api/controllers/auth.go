package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mahrarshah/foodiehaven-backend/api/responses"
	"github.com/mahrarshah/foodiehaven-backend/api/validators"
	authsvc "github.com/mahrarshah/foodiehaven-backend/internal/auth"
	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/logger"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// AuthRegister wires the sign-up endpoint into the HTTP layer.
func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.UserRoleCustomer
		if body.Role != "" {
			parsed, err := enums.ParseUserRole(body.Role)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
				return
			}
			role = parsed
		}

		session, err := svc.Register(r.Context(), authsvc.RegisterInput{
			FullName: body.FullName,
			Email:    body.Email,
			Password: body.Password,
			Phone:    body.Phone,
			Role:     role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newSessionResponse(session))
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), authsvc.LoginInput{
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSessionResponse(session))
	}
}

type registerRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" validate:"omitempty,oneof=customer vendor"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID           uuid.UUID         `json:"id"`
	Email        string            `json:"email"`
	FullName     string            `json:"full_name"`
	Phone        *string           `json:"phone,omitempty"`
	Role         enums.UserRole    `json:"role"`
	Addresses    types.AddressList `json:"addresses"`
	RecentOrders []uuid.UUID       `json:"recent_orders"`
	LastLoginAt  *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func newSessionResponse(session *authsvc.Session) sessionResponse {
	if session == nil {
		return sessionResponse{}
	}
	return sessionResponse{
		Token: session.Token,
		User:  newUserResponse(session.User),
	}
}

func newUserResponse(user *models.User) userResponse {
	if user == nil {
		return userResponse{}
	}
	addresses := user.Addresses
	if addresses == nil {
		addresses = types.AddressList{}
	}
	recent := []uuid.UUID(user.RecentOrders)
	if recent == nil {
		recent = []uuid.UUID{}
	}
	return userResponse{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		Phone:        user.Phone,
		Role:         user.Role,
		Addresses:    addresses,
		RecentOrders: recent,
		LastLoginAt:  user.LastLoginAt,
		CreatedAt:    user.CreatedAt,
	}
}
