package repository

import (
	"context"
	"errors"

	"travelagency/internal/domain"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add stores the pair, returning ErrDuplicate when it already exists.
func (r *FavoriteRepository) Add(ctx context.Context, f *domain.Favorite) error {
	return mapError(r.db.WithContext(ctx).Create(f).Error)
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, packageID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND package_id = ?", userID, packageID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, packageID int64) (bool, error) {
	var f domain.Favorite
	err := r.db.WithContext(ctx).Where("user_id = ? AND package_id = ?", userID, packageID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, mapError(err)
	}
	return true, nil
}

// ListByUser pages the wishlist newest first, with each package preloaded.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64, page, limit int) ([]domain.Favorite, int64, error) {
	page, limit = normalizePage(page, limit)

	q := r.db.WithContext(ctx).Model(&domain.Favorite{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapError(err)
	}

	var out []domain.Favorite
	err := q.Preload("Package").
		Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, mapError(err)
	}
	return out, total, nil
}
