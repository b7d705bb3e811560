package domain

import (
	"time"

	"gorm.io/gorm"
)

// TourPackage is the bookable offering. Price is per participant in whole rupiah.
type TourPackage struct {
	ID             int64          `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"type:varchar(200);not null" validate:"required,min=3"`
	Description    string         `json:"description,omitempty" gorm:"type:text"`
	DestinationID  *int64         `json:"destinationId,omitempty" gorm:"index"`
	HotelID        *int64         `json:"hotelId,omitempty" gorm:"index"`
	FleetID        *int64         `json:"fleetId,omitempty" gorm:"index"`
	Price          int64          `json:"price" gorm:"not null" validate:"gt=0"`
	DurationDays   int            `json:"durationDays" validate:"gte=1"`
	MaxParticipant int            `json:"maxParticipant,omitempty" validate:"gte=0"`
	Itinerary      string         `json:"itinerary,omitempty" gorm:"type:text"`
	ImageURL       string         `json:"imageUrl,omitempty" gorm:"type:text"`
	IsActive       bool           `json:"isActive" gorm:"default:true"`
	Destination    *Destination   `json:"destination,omitempty" gorm:"foreignKey:DestinationID"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (TourPackage) TableName() string { return "packages" }
