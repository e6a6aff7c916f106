package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	dbtypes "github.com/mahrarshah/foodiehaven-backend/pkg/db/types"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// recentOrdersLimit caps how many order ids are kept on the profile.
const recentOrdersLimit = 20

// UpdateProfileInput carries partial profile edits.
type UpdateProfileInput struct {
	FullName *string
	Phone    *string
}

// ServiceParams groups dependencies for the users service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes buyer profile operations.
type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.User, error)
	AddAddress(ctx context.Context, id uuid.UUID, address types.Address) (*models.User, error)
	RemoveAddress(ctx context.Context, id uuid.UUID, index int) (*models.User, error)
	AppendRecentOrder(ctx context.Context, userID, orderID uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds a users service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// GetProfile loads the user's profile.
func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.load(ctx, id)
}

// UpdateProfile applies partial edits to the profile.
func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		user.FullName = name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			user.Phone = nil
		} else {
			user.Phone = &phone
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating profile")
	}
	return user, nil
}

// AddAddress stores a delivery address on the profile. Adding the same
// address twice is a no-op, so the checkout "save this address" flow
// can fire on every order.
func (s *service) AddAddress(ctx context.Context, id uuid.UUID, address types.Address) (*models.User, error) {
	if err := address.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address")
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, existing := range user.Addresses {
		if sameAddress(existing, address) {
			return user, nil
		}
	}

	user.Addresses = append(user.Addresses, address)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving address")
	}
	return user, nil
}

// RemoveAddress drops the address at the given position in the book.
func (s *service) RemoveAddress(ctx context.Context, id uuid.UUID, index int) (*models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(user.Addresses) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}

	user.Addresses = append(user.Addresses[:index], user.Addresses[index+1:]...)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing address")
	}
	return user, nil
}

// AppendRecentOrder records a placed order on the buyer's profile,
// newest first, trimming the tail past the limit.
func (s *service) AppendRecentOrder(ctx context.Context, userID, orderID uuid.UUID) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	recent := make(dbtypes.UUIDArray, 0, len(user.RecentOrders)+1)
	recent = append(recent, orderID)
	for _, id := range user.RecentOrders {
		if id == orderID {
			continue
		}
		recent = append(recent, id)
	}
	if len(recent) > recentOrdersLimit {
		recent = recent[:recentOrdersLimit]
	}

	user.RecentOrders = recent
	if err := s.repo.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording recent order")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func sameAddress(a, b types.Address) bool {
	eq := func(x, y string) bool {
		return strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y))
	}
	return eq(a.Type, b.Type) && eq(a.Name, b.Name) && eq(a.Phone, b.Phone) &&
		eq(a.Line1, b.Line1) && eq(a.Line2, b.Line2)
}
