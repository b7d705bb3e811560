package favorite

import (
	"time"

	"travelagency/internal/domain"
)

type FavoriteResponse struct {
	ID        int64         `json:"id"`
	PackageID int64         `json:"packageId"`
	Package   *PackageBrief `json:"package,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// PackageBrief is the part of a package shown in wishlist listings.
type PackageBrief struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	DurationDays int    `json:"durationDays"`
	ImageURL     string `json:"imageUrl,omitempty"`
	IsActive     bool   `json:"isActive"`
}

type CheckFavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

func ToFavoriteResponse(f *domain.Favorite) FavoriteResponse {
	resp := FavoriteResponse{
		ID:        f.ID,
		PackageID: f.PackageID,
		CreatedAt: f.CreatedAt,
	}
	if f.Package != nil {
		resp.Package = &PackageBrief{
			ID:           f.Package.ID,
			Name:         f.Package.Name,
			Price:        f.Package.Price,
			DurationDays: f.Package.DurationDays,
			ImageURL:     f.Package.ImageURL,
			IsActive:     f.Package.IsActive,
		}
	}
	return resp
}
