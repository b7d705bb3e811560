package domain

import "time"

type Review struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	PackageID  int64     `json:"packageId" gorm:"uniqueIndex:idx_review_package_user;not null"`
	UserID     int64     `json:"userId" gorm:"uniqueIndex:idx_review_package_user;not null"`
	AuthorName string    `json:"authorName" gorm:"type:varchar(120)"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"createdAt"`
}
