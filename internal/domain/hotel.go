package domain

import (
	"time"

	"gorm.io/gorm"
)

type Hotel struct {
	ID            int64          `json:"id" gorm:"primaryKey"`
	DestinationID *int64         `json:"destinationId,omitempty" gorm:"index"`
	Name          string         `json:"name" gorm:"type:varchar(160);not null" validate:"required,min=2"`
	Address       string         `json:"address,omitempty" gorm:"type:text"`
	Stars         int            `json:"stars" validate:"gte=0,lte=5"`
	PricePerNight int64          `json:"pricePerNight" validate:"gte=0"`
	Facilities    string         `json:"facilities,omitempty" gorm:"type:text"`
	ImageURL      string         `json:"imageUrl,omitempty" gorm:"type:text"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}
