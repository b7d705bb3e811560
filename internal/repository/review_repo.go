package repository

import (
	"context"

	"travelagency/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	return mapError(r.db.WithContext(ctx).Create(rv).Error)
}

func (r *ReviewRepository) ListByPackage(ctx context.Context, packageID int64) ([]domain.Review, error) {
	var out []domain.Review
	if err := r.db.WithContext(ctx).Where("package_id = ?", packageID).Order("id DESC").Find(&out).Error; err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Review{}, id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
