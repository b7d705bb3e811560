package review

import (
	"context"
	"errors"
	"strings"

	"travelagency/internal/domain"
	"travelagency/internal/pkg/validator"
	"travelagency/internal/repository"
)

// BookingGate answers whether a customer has a paid booking for a package.
type BookingGate interface {
	HasPaidForPackage(ctx context.Context, email string, packageID int64) (bool, error)
}

type PackageGate interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	ListByPackage(ctx context.Context, packageID int64) ([]domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Service struct {
	reviews  ReviewRepository
	bookings BookingGate
	packages PackageGate
	users    UserReader
}

func NewService(reviews ReviewRepository, bookings BookingGate, packages PackageGate, users UserReader) *Service {
	return &Service{reviews: reviews, bookings: bookings, packages: packages, users: users}
}

// Create stores a review; only customers with a confirmed or completed booking may post.
func (s *Service) Create(ctx context.Context, userID int64, email string, req CreateReviewRequest) (*domain.Review, error) {
	if userID <= 0 || validator.Validate(req) != nil {
		return nil, ErrInvalidRequest
	}

	ok, err := s.packages.Exists(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	ok, err = s.bookings.HasPaidForPackage(ctx, email, req.PackageID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrReviewNotAllowed
	}

	author := ""
	if u, err := s.users.GetByID(ctx, userID); err == nil {
		author = u.Name
	}

	rv := &domain.Review{
		PackageID:  req.PackageID,
		UserID:     userID,
		AuthorName: author,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListByPackage(ctx context.Context, packageID int64) ([]domain.Review, error) {
	if packageID <= 0 {
		return nil, ErrInvalidRequest
	}
	return s.reviews.ListByPackage(ctx, packageID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
