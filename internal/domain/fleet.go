package domain

import (
	"time"

	"gorm.io/gorm"
)

// Fleet is a vehicle the agency uses for transfers and tours.
type Fleet struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(160);not null" validate:"required"`
	Type        string         `json:"type" gorm:"type:varchar(40)" validate:"required,oneof=bus minibus car boat plane"`
	Capacity    int            `json:"capacity" validate:"gt=0"`
	PlateNumber string         `json:"plateNumber,omitempty" gorm:"type:varchar(20)"`
	ImageURL    string         `json:"imageUrl,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
