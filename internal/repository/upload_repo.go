package repository

import (
	"context"

	"travelagency/internal/domain"

	"gorm.io/gorm"
)

type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Create(ctx context.Context, u *domain.Upload) error {
	return mapError(r.db.WithContext(ctx).Create(u).Error)
}
