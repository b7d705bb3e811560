package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(120);not null"`
	Email        string    `json:"email" gorm:"type:varchar(160);uniqueIndex;not null"`
	Phone        string    `json:"phone,omitempty" gorm:"type:varchar(40)"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminUser lives in its own table; admin accounts never log in through the customer flow.
type AdminUser struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"type:varchar(120)"`
	Email        string     `json:"email" gorm:"type:varchar(160);uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
