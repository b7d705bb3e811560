package domain

import (
	"time"

	"gorm.io/gorm"
)

type Blog struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"type:varchar(200);not null" validate:"required,min=3"`
	Slug        string         `json:"slug" gorm:"type:varchar(220);uniqueIndex" validate:"omitempty,max=220"`
	Content     string         `json:"content" gorm:"type:text" validate:"required"`
	Author      string         `json:"author,omitempty" gorm:"type:varchar(120)"`
	CoverURL    string         `json:"coverUrl,omitempty" gorm:"type:text"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
