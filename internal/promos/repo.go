package promos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahrarshah/foodiehaven-backend/pkg/db/models"
)

// Repository encapsulates promo catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a promo repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByCode returns every promo record carrying the code, oldest first.
// Codes are not unique: retired records may share a code with a live one, and
// the caller picks the first eligible record in this order.
func (r *Repository) FindByCode(ctx context.Context, code string) ([]models.Promo, error) {
	var promos []models.Promo
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Order("created_at ASC").
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}

// FindByID loads a single promo record.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promo, error) {
	var promo models.Promo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// ListByShop returns a shop's promos, newest first. A nil shop id lists the
// platform-wide promos instead.
func (r *Repository) ListByShop(ctx context.Context, shopID *uuid.UUID) ([]models.Promo, error) {
	q := r.db.WithContext(ctx)
	if shopID != nil {
		q = q.Where("shop_id = ?", *shopID)
	} else {
		q = q.Where("shop_id IS NULL")
	}

	var promos []models.Promo
	if err := q.Order("created_at DESC").Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// Create inserts a new promo record.
func (r *Repository) Create(ctx context.Context, promo *models.Promo) (*models.Promo, error) {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// Update persists mutable promo fields.
func (r *Repository) Update(ctx context.Context, promo *models.Promo) error {
	return r.db.WithContext(ctx).Save(promo).Error
}

// Delete removes a promo record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Promo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementUsage bumps used_count by one with a single atomic update. It does
// not re-check the usage limit: the read in Evaluate and this write are not
// one atomic step, so concurrent applications of a nearly-exhausted promo can
// overshoot the limit slightly.
func (r *Repository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Promo{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err is the record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
