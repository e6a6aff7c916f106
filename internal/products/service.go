package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
	pkgerrors "github.com/mahrarshah/foodiehaven-backend/pkg/errors"
	"github.com/mahrarshah/foodiehaven-backend/pkg/types"
)

// ShopResolver checks shop ownership for vendor mutations.
type ShopResolver interface {
	GetOwnShop(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error)
}

// CreateProductInput carries a vendor's new menu item.
type CreateProductInput struct {
	Name          string
	Description   *string
	Category      string
	Price         int
	DiscountPrice *int
	Images        []string
	Variations    types.Variations
}

// UpdateProductInput carries partial product edits.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Category      *string
	Price         *int
	DiscountPrice *int
	Images        []string
	Variations    types.Variations
	IsAvailable   *bool
}

// ReviewInput is a buyer's review submission.
type ReviewInput struct {
	Rating  int
	Comment string
}

// ServiceParams groups dependencies for the products service.
type ServiceParams struct {
	Repo  *Repository
	Shops ShopResolver
}

// Service exposes the product catalog and reviews.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, category string, limit int) ([]models.Product, error)
	ListShopProducts(ctx context.Context, shopID uuid.UUID, limit int) ([]models.Product, error)
	CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error
	AddReview(ctx context.Context, user *models.User, productID uuid.UUID, input ReviewInput) (*models.Review, error)
	ListReviews(ctx context.Context, productID uuid.UUID, limit int) ([]models.Review, error)
}

type service struct {
	repo  *Repository
	shops ShopResolver
}

// NewService builds a products service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products repo is required")
	}
	if params.Shops == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop resolver is required")
	}
	return &service{repo: params.Repo, shops: params.Shops}, nil
}

// GetProduct loads a single product.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

// ListProducts lists buyable products for browsing.
func (s *service) ListProducts(ctx context.Context, category string, limit int) ([]models.Product, error) {
	products, err := s.repo.ListAvailable(ctx, strings.TrimSpace(category), limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return products, nil
}

// ListShopProducts lists one shop's menu.
func (s *service) ListShopProducts(ctx context.Context, shopID uuid.UUID, limit int) ([]models.Product, error) {
	products, err := s.repo.ListByShop(ctx, shopID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing shop products")
	}
	return products, nil
}

// CreateProduct adds a menu item to the vendor's own shop.
func (s *service) CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*models.Product, error) {
	shop, err := s.shops.GetOwnShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := validateProductInput(input.Name, input.Price, input.DiscountPrice, input.Variations); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:            uuid.New(),
		ShopID:        shop.ID,
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Category:      strings.TrimSpace(input.Category),
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		Images:        pq.StringArray(input.Images),
		Variations:    input.Variations,
		IsAvailable:   true,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

// UpdateProduct applies partial edits to a product in the vendor's shop.
func (s *service) UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		product.Price = *input.Price
	}
	if input.DiscountPrice != nil {
		if *input.DiscountPrice >= product.Price {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount price must be below the price")
		}
		product.DiscountPrice = input.DiscountPrice
	}
	if input.Images != nil {
		product.Images = pq.StringArray(input.Images)
	}
	if input.Variations != nil {
		if err := validateVariations(input.Variations); err != nil {
			return nil, err
		}
		product.Variations = input.Variations
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return product, nil
}

// DeleteProduct removes a product from the vendor's shop.
func (s *service) DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	if _, err := s.ownedProduct(ctx, ownerID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

// AddReview records a buyer's rating and refreshes the product aggregate.
// One review per buyer per product.
func (s *service) AddReview(ctx context.Context, user *models.User, productID uuid.UUID, input ReviewInput) (*models.Review, error) {
	if user == nil || user.Role != enums.UserRoleCustomer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can review products")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindReview(ctx, productID, user.ID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing review")
	}

	review := &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.FullName,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}

	created, err := s.repo.CreateReview(ctx, review)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating review")
	}

	// Refresh the denormalized aggregate. Best-effort: the review itself
	// is already stored.
	if avg, count, aggErr := s.repo.ReviewAggregate(ctx, productID); aggErr == nil {
		_ = s.repo.UpdateRating(ctx, productID, avg, count)
	}

	return created, nil
}

// ListReviews returns a product's reviews.
func (s *service) ListReviews(ctx context.Context, productID uuid.UUID, limit int) ([]models.Review, error) {
	reviews, err := s.repo.ListReviews(ctx, productID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reviews")
	}
	return reviews, nil
}

func (s *service) ownedProduct(ctx context.Context, ownerID, productID uuid.UUID) (*models.Product, error) {
	shop, err := s.shops.GetOwnShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.ShopID != shop.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to a different shop")
	}
	return product, nil
}

func validateProductInput(name string, price int, discountPrice *int, variations types.Variations) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if price <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if discountPrice != nil && *discountPrice >= price {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount price must be below the price")
	}
	return validateVariations(variations)
}

func validateVariations(variations types.Variations) error {
	seen := make(map[string]struct{}, len(variations))
	for _, v := range variations {
		name := strings.ToLower(strings.TrimSpace(v.Name))
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variation name is required")
		}
		if v.Price < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "variation price cannot be negative")
		}
		if _, ok := seen[name]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate variation name")
		}
		seen[name] = struct{}{}
	}
	return nil
}
