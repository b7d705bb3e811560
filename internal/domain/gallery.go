package domain

import (
	"time"

	"gorm.io/gorm"
)

type Gallery struct {
	ID            int64          `json:"id" gorm:"primaryKey"`
	Title         string         `json:"title" gorm:"type:varchar(200)" validate:"required"`
	ImageURL      string         `json:"imageUrl" gorm:"type:text;not null" validate:"required"`
	DestinationID *int64         `json:"destinationId,omitempty" gorm:"index"`
	Caption       string         `json:"caption,omitempty" gorm:"type:text"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}
