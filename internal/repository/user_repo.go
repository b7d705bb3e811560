package repository

import (
	"context"
	"strings"
	"time"

	"travelagency/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	return mapError(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, a *domain.AdminUser) error {
	a.Email = normalizeEmail(a.Email)
	return mapError(r.db.WithContext(ctx).Create(a).Error)
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	var a domain.AdminUser
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var a domain.AdminUser
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&a).Error; err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *AdminRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	return mapError(r.db.WithContext(ctx).Model(&domain.AdminUser{}).Where("id = ?", id).Update("last_login_at", at).Error)
}
