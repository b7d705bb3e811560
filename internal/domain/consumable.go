package domain

import (
	"time"

	"gorm.io/gorm"
)

// Consumable is a sellable add-on (meals, souvenirs, travel kits).
type Consumable struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(160);not null" validate:"required"`
	Unit      string         `json:"unit,omitempty" gorm:"type:varchar(32)"`
	Price     int64          `json:"price" validate:"gt=0"`
	Stock     int            `json:"stock" validate:"gte=0"`
	ImageURL  string         `json:"imageUrl,omitempty" gorm:"type:text"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
