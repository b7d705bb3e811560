package domain

import "time"

// Favorite is a package on a customer's wishlist.
type Favorite struct {
	ID        int64        `json:"id" gorm:"primaryKey"`
	UserID    int64        `json:"userId" gorm:"not null;index;uniqueIndex:idx_favorite_user_package"`
	PackageID int64        `json:"packageId" gorm:"not null;uniqueIndex:idx_favorite_user_package"`
	Package   *TourPackage `json:"package,omitempty" gorm:"foreignKey:PackageID"`
	CreatedAt time.Time    `json:"createdAt"`
}
