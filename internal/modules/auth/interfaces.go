package auth

import (
	"context"
	"time"

	"travelagency/internal/domain"
)

// UserRepositoryInterface is the customer account storage the service needs.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type AdminRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	TouchLogin(ctx context.Context, id int64, at time.Time) error
}

type jwtService interface {
	GenerateToken(userID int64, email, role string) (string, error)
}
