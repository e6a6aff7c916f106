package shops

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
	"github.com/mahrarshah/foodiehaven-backend/pkg/enums"
)

// Repository encapsulates shop persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shops repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new shop record.
func (r *Repository) Create(ctx context.Context, shop *models.Shop) (*models.Shop, error) {
	if err := r.db.WithContext(ctx).Create(shop).Error; err != nil {
		return nil, err
	}
	return shop, nil
}

// FindByID loads a single shop.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindByOwner loads the shop owned by a vendor user.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// ListByStatus returns shops in the given status, newest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.ShopStatus, limit int) ([]models.Shop, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var shops []models.Shop
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&shops).Error
	if err != nil {
		return nil, err
	}
	return shops, nil
}

// ListAll returns shops regardless of status, newest first.
func (r *Repository) ListAll(ctx context.Context, limit int) ([]models.Shop, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var shops []models.Shop
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&shops).Error
	if err != nil {
		return nil, err
	}
	return shops, nil
}

// Update persists mutable shop profile fields.
func (r *Repository) Update(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

// UpdateStatus moves a shop through moderation.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ShopStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementTotalOrders bumps the shop's order tally and refreshes its
// timestamp with a single atomic update.
func (r *Repository) IncrementTotalOrders(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_orders": gorm.Expr("total_orders + 1"),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateRating recomputes the shop's aggregate rating fields.
func (r *Repository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewCount int) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating":       rating,
			"review_count": reviewCount,
		}).Error
}
