package domain

import (
	"time"

	"gorm.io/gorm"
)

type Destination struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(160);not null" validate:"required,min=2"`
	Slug        string         `json:"slug" gorm:"type:varchar(180);uniqueIndex" validate:"omitempty,max=180"`
	Country     string         `json:"country" gorm:"type:varchar(80)" validate:"required"`
	City        string         `json:"city,omitempty" gorm:"type:varchar(80)"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string         `json:"imageUrl,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
