package models

import (
	"time"

	"github.com/oceanharvest/fishmarket-backend/pkg/enums"
)

// User represents the canonical identity entity. The primary key is a
// sequential human-readable id such as BUY0001 or FISHER0001.
type User struct {
	ID           string         `gorm:"column:id;type:text;primaryKey"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Username     string         `gorm:"column:username;type:text;not null;uniqueIndex"`
	Email        string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	ProfileInfo  *string        `gorm:"column:profile_info"`
	Location     *string        `gorm:"column:location"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
