package domain

import "time"

type Upload struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	AdminID      int64     `json:"adminId" gorm:"index"`
	OriginalName string    `json:"originalName" gorm:"type:varchar(255)"`
	MimeType     string    `json:"mimeType" gorm:"type:varchar(100)"`
	Size         int64     `json:"size"`
	Path         string    `json:"-" gorm:"type:text"`
	URL          string    `json:"url" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt"`
}
