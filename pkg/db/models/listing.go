package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/urbanswap/urbanswap-backend/pkg/enums"
)

// Listing represents an item, skill, or community offer posted for swap.
type Listing struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Title           string                `gorm:"column:title;not null"`
	Description     string                `gorm:"column:description;not null"`
	Category        enums.ListingCategory `gorm:"column:category;type:text;not null"`
	Location        string                `gorm:"column:location;not null"`
	Price           *string               `gorm:"column:price"`
	SwapPreferences *string               `gorm:"column:swap_preferences"`
	ImageURL        *string               `gorm:"column:image_url"`
	Status          enums.ListingStatus   `gorm:"column:status;type:text;not null;default:active"`
	Featured        bool                  `gorm:"column:featured;not null;default:false"`
	Owner           *User                 `gorm:"foreignKey:UserID"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
